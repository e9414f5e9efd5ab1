package field

import (
	"context"
	"testing"

	"github.com/san-kum/gravfield/internal/gravity"
)

func benchEvaluate(b *testing.B, spacing float64, workers int) {
	mesh, err := MeshForSpacing(-100, 100, spacing)
	if err != nil {
		b.Fatal(err)
	}
	ev := NewEvaluator(gravity.PointMass{Location: gravity.Point3D{Z: -10}, Mass: 1e7}, workers)
	levels := []float64{0, 10, 100}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ev.Evaluate(ctx, mesh, levels); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEvaluate5m(b *testing.B)     { benchEvaluate(b, 5, 1) }
func BenchmarkEvaluate5mPool(b *testing.B) { benchEvaluate(b, 5, -1) }
func BenchmarkEvaluate25m(b *testing.B)    { benchEvaluate(b, 25, 1) }
func BenchmarkEvaluate1mPool(b *testing.B) { benchEvaluate(b, 1, -1) }

func BenchmarkSample(b *testing.B) {
	pm := gravity.PointMass{Location: gravity.Point3D{Z: -10}, Mass: 1e7}
	obs := gravity.Point3D{X: 3, Y: 4, Z: 0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := pm.Sample(obs); err != nil {
			b.Fatal(err)
		}
	}
}
