// SPDX-License-Identifier: GPL-2.0-or-later
package bsp

import (
	"bytes"
	"fmt"
	"strconv"

	"gobsp/math/vec"
)

// Entity is one key/value block from the entity lump. Brush entities
// reference the submodel they are made of with a "model" "*N" property.
type Entity struct {
	properties map[string]string
	src        []byte
}

func NewEntity(p []byte) *Entity {
	e := &Entity{properties: make(map[string]string), src: p}
	// parse the entity line by line
	lines := bytes.Split(p, []byte("\n"))
	for _, l := range lines {
		// look for something of the form
		// "key" "value"
		q := bytes.IndexByte(l, '"')
		if q == -1 {
			continue
		}
		r := l[q+1:]
		q = bytes.IndexByte(r, '"')
		if q == -1 {
			continue
		}
		key := string(r[:q])
		r = r[q+1:]
		q = bytes.IndexByte(r, '"')
		if q == -1 {
			continue
		}
		r = r[q+1:]
		q = bytes.IndexByte(r, '"')
		if q == -1 {
			continue
		}
		value := string(r[:q])
		e.properties[key] = value
	}
	return e
}

func (e *Entity) Property(name string) (string, bool) {
	v, ok := e.properties[name]
	return v, ok
}

func (e *Entity) Name() (string, bool) {
	v, ok := e.properties["classname"]
	return v, ok
}

func (e *Entity) PropertyNames() []string {
	n := []string{}
	for k := range e.properties {
		n = append(n, k)
	}
	return n
}

// SubmodelIndex returns the submodel a brush entity is bound to, -1 if the
// entity has none.
func (e *Entity) SubmodelIndex() int {
	v, ok := e.properties["model"]
	if !ok || len(v) < 2 || v[0] != '*' {
		return -1
	}
	i, err := strconv.Atoi(v[1:])
	if err != nil {
		return -1
	}
	return i
}

// Origin returns the entity "origin" property, the zero vector if missing.
func (e *Entity) Origin() vec.Vec3 {
	v, ok := e.properties["origin"]
	if !ok {
		return vec.Vec3{}
	}
	var o vec.Vec3
	if _, err := fmt.Sscanf(v, "%f %f %f", &o[0], &o[1], &o[2]); err != nil {
		return vec.Vec3{}
	}
	return o
}

func ParseEntities(data []byte) []*Entity {
	/*
		The data looks like:
		{
		  "name" "value"
		  "name2" "value2"
		}
		{
		  "name3" "value"
		}
	*/
	// First split the entities
	es := []*Entity{}
	var ess [][]byte
	var ob, q int
	start := -1
	for i, b := range data {
		switch b {
		case '{':
			if q != 0 {
				break
			}
			if start == -1 {
				start = i
			} else {
				ob++
			}
		case '}':
			if q != 0 {
				break
			}
			if start == -1 {
				// Bad input
				return es
			}
			if ob != 0 {
				ob--
				break
			}
			ess = append(ess, data[start:i+1])
			start = -1
		case '"':
			q = 1 - q
		}
	}
	for _, e := range ess {
		es = append(es, NewEntity(e))
	}
	return es
}
