package forth

// aliases maps alternate spellings onto the dictionary name that actually
// carries the definition.
var aliases = map[string]string{
	"cells": "2*",
	"cell":  "2*",
	"not":   "0=",
}

// Dictionary is an insert-at-front list of named definitions. Lookup scans
// front to back, so a redefinition shadows the older entry while references
// already bound to the older one stay bound.
type Dictionary struct {
	defs []Def
}

// Add registers a definition at the front.
func (d *Dictionary) Add(def Def) {
	d.defs = append([]Def{def}, d.defs...)
}

// Find resolves name through the alias table and returns the most recent
// matching definition, or nil.
func (d *Dictionary) Find(name string) Def {
	if target, ok := aliases[name]; ok {
		name = target
	}
	for _, def := range d.defs {
		if def.DefName() == name {
			return def
		}
	}
	return nil
}
