// SPDX-License-Identifier: GPL-2.0-or-later
package bsp

import (
	"testing"

	"gobsp/math/vec"
)

func TestParseEntities(t *testing.T) {
	data := []byte(`{
"classname" "worldspawn"
"sky" "unit1_"
}
{
"classname" "func_plat"
"model" "*2"
}`)
	es := ParseEntities(data)
	if len(es) != 2 {
		t.Fatalf("got %d entities, want 2", len(es))
	}
	if n, ok := es[0].Name(); !ok || n != "worldspawn" {
		t.Errorf("entity 0 Name = %q,%v", n, ok)
	}
	if v, ok := es[0].Property("sky"); !ok || v != "unit1_" {
		t.Errorf("sky = %q,%v", v, ok)
	}
	if _, ok := es[0].Property("model"); ok {
		t.Errorf("worldspawn has a model property")
	}
	if idx := es[1].SubmodelIndex(); idx != 2 {
		t.Errorf("func_plat SubmodelIndex = %d want 2", idx)
	}
}

func TestParseEntitiesBadInput(t *testing.T) {
	if es := ParseEntities([]byte("}{")); len(es) != 0 {
		t.Errorf("bad input produced %d entities", len(es))
	}
	if es := ParseEntities(nil); len(es) != 0 {
		t.Errorf("nil input produced %d entities", len(es))
	}
}

func TestEntityDefaults(t *testing.T) {
	e := NewEntity([]byte("{\n\"classname\" \"light\"\n}"))
	if idx := e.SubmodelIndex(); idx != -1 {
		t.Errorf("SubmodelIndex without model = %d want -1", idx)
	}
	if o := e.Origin(); o != (vec.Vec3{}) {
		t.Errorf("Origin without property = %v", o)
	}
	if names := e.PropertyNames(); len(names) != 1 || names[0] != "classname" {
		t.Errorf("PropertyNames = %v", names)
	}
}
