package signal_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-stft/dsp/signal"
)

func ExampleGenerator_Sine() {
	g := signal.NewGenerator(signal.WithSampleRate(1000))
	x, err := g.Sine(250, 1, 5)
	if err != nil {
		panic(err)
	}
	if math.Abs(x[4]) < 1e-12 {
		x[4] = 0
	}

	fmt.Printf("%.0f %.0f %.0f %.0f %.0f\n", x[0], x[1], x[2], x[3], x[4])

	// Output:
	// 0 1 0 -1 0
}

func ExampleNormalize() {
	x := [][]float64{{-0.5, 0.25, 1}, {0.5, 0, -0.25}}
	if err := signal.Normalize(x, 0.8); err != nil {
		panic(err)
	}
	fmt.Printf("%.2f %.2f %.2f\n", x[0][0], x[0][1], x[0][2])
	fmt.Printf("%.2f %.2f %.2f\n", x[1][0], x[1][1], x[1][2])

	// Output:
	// -0.40 0.20 0.80
	// 0.40 0.00 -0.20
}
