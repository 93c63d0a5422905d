package main

import (
	"fmt"
	"os"
	"strings"

	"nbody-bench/internal/chart"
	"nbody-bench/internal/dataset"
)

// go run etc/tools/sample_chart.go
// in etc/charts/results_plot.png
const sample = `bodies,threads,time_sec
10,1,0.0021
10,2,0.0034
10,4,0.0061
100,1,0.081
100,2,0.052
100,4,0.039
1000,1,7.9
1000,2,4.1
1000,4,2.2
`

func main() {
	fmt.Println("Generating sample chart...")

	ds, err := dataset.Parse(strings.NewReader(sample), "sample")
	if err != nil {
		fmt.Printf("Error parsing sample data: %v\n", err)
		os.Exit(1)
	}

	img, err := chart.Render(chart.BuildFigure(ds.GroupByBodies(), chart.DefaultOptions()))
	if err != nil {
		fmt.Printf("Error rendering chart: %v\n", err)
		os.Exit(1)
	}

	path := "etc/charts/results_plot.png"
	if err := chart.SavePNG(img, path); err != nil {
		fmt.Printf("Error saving chart: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Chart generated successfully: %s\n", path)
	fmt.Println("Open the file to see the result!")
}
