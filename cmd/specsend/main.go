// Command specsend streams audio through a real-time STFT sender and reports
// the spectra it publishes.
//
// Usage:
//
//	specsend run [flags]
//	specsend windows [--size N]
//
// Examples:
//
//	specsend run --signal sine --frequency 1000
//	specsend run --frame-size 2048 --overlap 4 --window flattop -o yaml
//	specsend run --input capture.f32 --channels 2 --sample-rate 44100
//	specsend windows --size 4096
package main

import "github.com/cwbudde/algo-stft/internal/cli"

func main() {
	cli.Execute()
}
