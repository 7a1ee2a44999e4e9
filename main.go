package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gobsp/bsp"
	"gobsp/math/vec"
)

var (
	mapFile  = flag.String("map", "", "bsp file to load")
	start    = flag.String("start", "", "trace start point as x,y,z")
	end      = flag.String("end", "", "trace end point as x,y,z")
	extents  = flag.String("extents", "", "box half extents as x,y,z, empty runs a line trace")
	submodel = flag.Int("submodel", 0, "submodel to trace against, 0 is the world")
)

func parseVec(s string) (vec.Vec3, error) {
	var v vec.Vec3
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return v, fmt.Errorf("%q is not of the form x,y,z", s)
	}
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return v, err
		}
		v[i] = float32(f)
	}
	return v, nil
}

func main() {
	flag.Parse()
	if *mapFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	m, err := bsp.LoadFile(*mapFile)
	if err != nil {
		log.Fatalf("loading %s: %v", *mapFile, err)
	}
	fmt.Printf("%s: %d planes, %d nodes, %d leafs, %d brushes, %d submodels, %d entities\n",
		m.Name(), len(m.Planes), len(m.Nodes), len(m.Leafs),
		len(m.Brushes), len(m.Submodels), len(m.Entities))

	if *start == "" || *end == "" {
		return
	}
	s, err := parseVec(*start)
	if err != nil {
		log.Fatalf("-start: %v", err)
	}
	e, err := parseVec(*end)
	if err != nil {
		log.Fatalf("-end: %v", err)
	}

	var tr bsp.Trace
	if *extents != "" {
		x, err := parseVec(*extents)
		if err != nil {
			log.Fatalf("-extents: %v", err)
		}
		tr = m.BoxTrace(*submodel, bsp.MASK_SOLID, s, e, x)
	} else {
		tr = m.LineTrace(*submodel, bsp.MASK_SOLID, s, e)
	}

	fmt.Printf("fraction %v\nend %v\nnormal %v\nstartsolid %v allsolid %v\n",
		tr.Fraction, tr.EndPos, tr.HitNormal, tr.StartSolid, tr.AllSolid)
}
