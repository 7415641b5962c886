// Stress test for the vob tree: transform propagation and the spatial index
// against a linear scan.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"time"

	"gothic3d/internal/engine"
	"gothic3d/internal/world"
	"gothic3d/internal/zen"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func main() {
	fanout := flag.Int("fanout", 4, "children per vob")
	queries := flag.Int("queries", 200, "VobsNear queries per run")
	flag.Parse()

	// Test various vob counts
	testCounts := []int{100, 500, 1000, 5000, 10000, 20000}

	for _, count := range testCounts {
		testTree(count, *fanout, *queries)
	}
}

func testTree(count, fanout, queries int) {
	rand.Seed(42) // Consistent results

	w := world.New("STRESS.ZEN")
	w.Logger = log.New(io.Discard, "", 0)

	// Spawn in a cube, size scales with count to keep density reasonable
	spawnSize := float32(5000.0) + float32(count)*2

	ids := make([]engine.VobID, 0, count)
	for i := 0; i < count; i++ {
		parent := engine.NoVob
		if i > 0 {
			parent = ids[(i-1)/fanout]
		}
		rec := &zen.Record{
			Type:  zen.VTzCVob,
			Class: "zCVob",
			Name:  fmt.Sprintf("VOB_%d", i),
			Position: [3]float32{
				rand.Float32()*spawnSize - spawnSize/2,
				rand.Float32()*spawnSize - spawnSize/2,
				rand.Float32()*spawnSize - spawnSize/2,
			},
		}
		ids = append(ids, w.AddVob(parent, rec))
	}
	tree := w.Tree()

	// Move every root; each move propagates through its whole subtree.
	recalcStart := time.Now()
	const recalcIterations = 10
	for iter := 0; iter < recalcIterations; iter++ {
		for _, root := range tree.Roots() {
			m := tree.Transform(root)
			m.M13 += 1
			tree.SetLocalTransform(root, m)
		}
	}
	recalcTime := time.Since(recalcStart) / recalcIterations

	centers := make([]rl.Vector3, queries)
	for i := range centers {
		centers[i] = rl.Vector3{
			X: rand.Float32()*spawnSize - spawnSize/2,
			Y: rand.Float32()*spawnSize - spawnSize/2,
			Z: rand.Float32()*spawnSize - spawnSize/2,
		}
	}
	const radius = 800

	// Warm up
	w.VobsNear(centers[0], radius)

	indexStart := time.Now()
	indexHits := 0
	for _, c := range centers {
		indexHits += len(w.VobsNear(c, radius))
	}
	indexTime := time.Since(indexStart)

	scanStart := time.Now()
	scanHits := 0
	for _, c := range centers {
		tree.Walk(func(v *engine.Vob) bool {
			if rl.Vector3Distance(tree.Position(v.ID()), c) <= radius {
				scanHits++
			}
			return true
		})
	}
	scanTime := time.Since(scanStart)

	speedup := float64(scanTime) / float64(indexTime)

	fmt.Printf("%5d vobs: recalc %8v | index %8v (%5d hits) | scan %10v (%5d hits) | %.1fx speedup\n",
		count, recalcTime.Round(time.Microsecond),
		indexTime.Round(time.Microsecond), indexHits,
		scanTime.Round(time.Microsecond), scanHits, speedup)
}
