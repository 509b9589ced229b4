package forth

import (
	"strconv"
	"strings"
)

// runtimeText substitutes the two stack parameters into the runtime asset.
// The size is masked to 8 bits: 256 becomes 0, which the startup ldx/dex
// arithmetic wraps into a full page.
func runtimeText(pstackBottom string, pstackSize int) string {
	r := strings.NewReplacer(
		"{pstack_bottom}", pstackBottom,
		"{pstack_size}", strconv.Itoa(pstackSize&0xff),
	)
	return r.Replace(runtimeSrc)
}

// runtimeSrc is the fixed 6502 runtime, written in the source language so it
// flows through the same pipeline as user code. It fills the boot section
// with the inner interpreter and the primitives the threaded-code builder
// emits references to: enter, exit, lit, branch, _if, until, while, do,
// loop, plus_loop, unloop, const.
//
// Conventions: X indexes the parameter stack (cells lo/hi, growing down
// from pstack+size), the hardware stack is the return stack, IP/W live on
// the zero page. Branch offset cells hold the address two bytes below the
// continuation, so the shared jump tail always adds 2.
const runtimeSrc = `\ 6502 indirect-threaded runtime

[text-section] boot

[code]
ip equ $80
w equ $82
z equ $84
t equ $86
pstack equ {pstack_bottom}

boot
 ldx #{pstack_size}
 lda #<cold
 sta ip
 lda #>cold
 sta ip+1

; inner interpreter: W <- (IP), IP <- IP+2, jump through the code field
next
 ldy #0
 lda (ip),y
 sta w
 iny
 lda (ip),y
 sta w+1
 lda ip
 clc
 adc #2
 sta ip
 bcc next1
 inc ip+1
next1
 ldy #0
 lda (w),y
 sta z
 iny
 lda (w),y
 sta z+1
 jmp (z)

; colon word entry: save IP, continue at the body behind the code field
enter
 lda ip+1
 pha
 lda ip
 pha
 lda w
 clc
 adc #2
 sta ip
 lda w+1
 adc #0
 sta ip+1
 jmp next

; constant/variable entry: push the cell following the code field
const
 ldy #2
 lda (w),y
 dex
 dex
 sta pstack,x
 iny
 lda (w),y
 sta pstack+1,x
 jmp next

; branch tail: IP <- (IP)+2
jump
 ldy #0
 lda (ip),y
 sta z
 iny
 lda (ip),y
 sta z+1
 lda z
 clc
 adc #2
 sta ip
 lda z+1
 adc #0
 sta ip+1
 jmp next

; fall-through tail: step over the offset cell
skip
 lda ip
 clc
 adc #2
 sta ip
 bcc skip1
 inc ip+1
skip1
 jmp next

exit
 dta a(*+2)
 pla
 sta ip
 pla
 sta ip+1
 jmp next

lit
 dta a(*+2)
 ldy #0
 lda (ip),y
 dex
 dex
 sta pstack,x
 iny
 lda (ip),y
 sta pstack+1,x
 jmp skip

branch
 dta a(*+2)
 jmp jump

_if
 dta a(*+2)
 lda pstack,x
 ora pstack+1,x
 inx
 inx
 tay
 beq _if1
 jmp skip
_if1
 jmp jump
until equ _if
while equ _if

; move limit and counter to the return stack, counter on top
do
 dta a(*+2)
 lda pstack+3,x
 pha
 lda pstack+2,x
 pha
 lda pstack+1,x
 pha
 lda pstack,x
 pha
 inx
 inx
 inx
 inx
 jmp next

loop
 dta a(*+2)
 stx t
 tsx
 inc $101,x
 bne loop1
 inc $102,x
loop1
 lda $101,x
 cmp $103,x
 bne loop2
 lda $102,x
 cmp $104,x
 bne loop2
 ldx t
 pla
 pla
 pla
 pla
 jmp skip
loop2
 ldx t
 jmp jump

plus_loop
 dta a(*+2)
 lda pstack,x
 sta z
 lda pstack+1,x
 sta z+1
 inx
 inx
 stx t
 tsx
 lda $101,x
 clc
 adc z
 sta $101,x
 lda $102,x
 adc z+1
 sta $102,x
 lda $101,x
 cmp $103,x
 lda $102,x
 sbc $104,x
 bvc plus_loop1
 eor #$80
plus_loop1
 bpl plus_loop2
 ldx t
 jmp jump
plus_loop2
 ldx t
 pla
 pla
 pla
 pla
 jmp skip

unloop
 dta a(*+2)
 pla
 pla
 pla
 pla
 jmp next

; startup thread: run main, then spin
cold
 dta a(main)
 dta a(stop)
stop
 dta a(*+2)
stop1
 jmp stop1
[end-code]

[text-section] text
`

// baseWordsText is the core word library, ordinary code-word definitions
// compiled through the front end so unused entries are dead-stripped like
// any user word.
const baseWordsText = `\ core words

: dup
[code]
 dex
 dex
 lda pstack+2,x
 sta pstack,x
 lda pstack+3,x
 sta pstack+1,x
 jmp next
[end-code] ;

: drop
[code]
 inx
 inx
 jmp next
[end-code] ;

: swap
[code]
 lda pstack,x
 ldy pstack+2,x
 sta pstack+2,x
 sty pstack,x
 lda pstack+1,x
 ldy pstack+3,x
 sta pstack+3,x
 sty pstack+1,x
 jmp next
[end-code] ;

: over
[code]
 dex
 dex
 lda pstack+4,x
 sta pstack,x
 lda pstack+5,x
 sta pstack+1,x
 jmp next
[end-code] ;

: rot
[code]
 lda pstack+4,x
 sta z
 lda pstack+5,x
 sta z+1
 lda pstack+2,x
 sta pstack+4,x
 lda pstack+3,x
 sta pstack+5,x
 lda pstack,x
 sta pstack+2,x
 lda pstack+1,x
 sta pstack+3,x
 lda z
 sta pstack,x
 lda z+1
 sta pstack+1,x
 jmp next
[end-code] ;

: >r [label] to_r
[code]
 lda pstack+1,x
 pha
 lda pstack,x
 pha
 inx
 inx
 jmp next
[end-code] ;

: r> [label] r_from
[code]
 dex
 dex
 pla
 sta pstack,x
 pla
 sta pstack+1,x
 jmp next
[end-code] ;

: ! [label] store
[code]
 lda pstack,x
 sta w
 lda pstack+1,x
 sta w+1
 ldy #0
 lda pstack+2,x
 sta (w),y
 iny
 lda pstack+3,x
 sta (w),y
 inx
 inx
 inx
 inx
 jmp next
[end-code] ;

: @ [label] fetch
[code]
 lda pstack,x
 sta w
 lda pstack+1,x
 sta w+1
 ldy #0
 lda (w),y
 sta pstack,x
 iny
 lda (w),y
 sta pstack+1,x
 jmp next
[end-code] ;

: c! [label] cstore
[code]
 lda pstack,x
 sta w
 lda pstack+1,x
 sta w+1
 ldy #0
 lda pstack+2,x
 sta (w),y
 inx
 inx
 inx
 inx
 jmp next
[end-code] ;

: c@ [label] cfetch
[code]
 lda pstack,x
 sta w
 lda pstack+1,x
 sta w+1
 ldy #0
 lda (w),y
 sta pstack,x
 lda #0
 sta pstack+1,x
 jmp next
[end-code] ;

: +! [label] plus_store
[code]
 lda pstack,x
 sta w
 lda pstack+1,x
 sta w+1
 ldy #0
 lda (w),y
 clc
 adc pstack+2,x
 sta (w),y
 iny
 lda (w),y
 adc pstack+3,x
 sta (w),y
 inx
 inx
 inx
 inx
 jmp next
[end-code] ;

: + [label] plus
[code]
 lda pstack,x
 clc
 adc pstack+2,x
 sta pstack+2,x
 lda pstack+1,x
 adc pstack+3,x
 sta pstack+3,x
 inx
 inx
 jmp next
[end-code] ;

: - [label] minus
[code]
 sec
 lda pstack+2,x
 sbc pstack,x
 sta pstack+2,x
 lda pstack+3,x
 sbc pstack+1,x
 sta pstack+3,x
 inx
 inx
 jmp next
[end-code] ;

: 1+ [label] one_plus
[code]
 inc pstack,x
 bne one_plus1
 inc pstack+1,x
one_plus1
 jmp next
[end-code] ;

: 1- [label] one_minus
[code]
 lda pstack,x
 bne one_minus1
 dec pstack+1,x
one_minus1
 dec pstack,x
 jmp next
[end-code] ;

: 2* [label] two_star
[code]
 asl pstack,x
 rol pstack+1,x
 jmp next
[end-code] ;

: 2/ [label] two_slash
[code]
 lda pstack+1,x
 cmp #$80
 ror pstack+1,x
 ror pstack,x
 jmp next
[end-code] ;

: and [label] land
[code]
 lda pstack,x
 and pstack+2,x
 sta pstack+2,x
 lda pstack+1,x
 and pstack+3,x
 sta pstack+3,x
 inx
 inx
 jmp next
[end-code] ;

: or [label] lor
[code]
 lda pstack,x
 ora pstack+2,x
 sta pstack+2,x
 lda pstack+1,x
 ora pstack+3,x
 sta pstack+3,x
 inx
 inx
 jmp next
[end-code] ;

: xor [label] lxor
[code]
 lda pstack,x
 eor pstack+2,x
 sta pstack+2,x
 lda pstack+1,x
 eor pstack+3,x
 sta pstack+3,x
 inx
 inx
 jmp next
[end-code] ;

: 0= [label] zero_eq
[code]
 lda pstack,x
 ora pstack+1,x
 beq zero_eq1
 lda #0
 beq zero_eq2
zero_eq1
 lda #$ff
zero_eq2
 sta pstack,x
 sta pstack+1,x
 jmp next
[end-code] ;

: 0< [label] zero_lt
[code]
 lda pstack+1,x
 bmi zero_lt1
 lda #0
 beq zero_lt2
zero_lt1
 lda #$ff
zero_lt2
 sta pstack,x
 sta pstack+1,x
 jmp next
[end-code] ;

: = [label] equal
[code]
 lda pstack,x
 cmp pstack+2,x
 bne equal1
 lda pstack+1,x
 cmp pstack+3,x
 bne equal1
 lda #$ff
 bne equal2
equal1
 lda #0
equal2
 inx
 inx
 sta pstack,x
 sta pstack+1,x
 jmp next
[end-code] ;

: <> [label] not_equal
[code]
 lda pstack,x
 cmp pstack+2,x
 bne not_equal1
 lda pstack+1,x
 cmp pstack+3,x
 bne not_equal1
 lda #0
 beq not_equal2
not_equal1
 lda #$ff
not_equal2
 inx
 inx
 sta pstack,x
 sta pstack+1,x
 jmp next
[end-code] ;

: < [label] less
[code]
 lda pstack+2,x
 cmp pstack,x
 lda pstack+3,x
 sbc pstack+1,x
 bvc less1
 eor #$80
less1
 bmi less2
 lda #0
 beq less3
less2
 lda #$ff
less3
 inx
 inx
 sta pstack,x
 sta pstack+1,x
 jmp next
[end-code] ;

: > [label] greater
[code]
 lda pstack,x
 cmp pstack+2,x
 lda pstack+1,x
 sbc pstack+3,x
 bvc greater1
 eor #$80
greater1
 bmi greater2
 lda #0
 beq greater3
greater2
 lda #$ff
greater3
 inx
 inx
 sta pstack,x
 sta pstack+1,x
 jmp next
[end-code] ;

: i
[code]
 stx t
 tsx
 lda $101,x
 sta z
 lda $102,x
 sta z+1
 ldx t
 dex
 dex
 lda z
 sta pstack,x
 lda z+1
 sta pstack+1,x
 jmp next
[end-code] ;

: j
[code]
 stx t
 tsx
 lda $105,x
 sta z
 lda $106,x
 sta z+1
 ldx t
 dex
 dex
 lda z
 sta pstack,x
 lda z+1
 sta pstack+1,x
 jmp next
[end-code] ;

: halt
[code]
 jmp stop1
[end-code] ;
`
