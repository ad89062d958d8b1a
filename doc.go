/*
Package qrstyle turns a QR module matrix into a styled image: custom module
shapes, decorated finder patterns, gradient color masks and an optional logo,
exported as PNG, JPEG, BMP, SVG, PDF or EPS.

The package provides a command line interface, supporting various flags for
the style and the output formats. To check the supported commands type:

	$ qrstyle --help

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"fmt"

		"github.com/esimov/qrstyle"
		"github.com/esimov/qrstyle/export"
	)

	func main() {
		set, err := qrstyle.ParseOptions(qrstyle.Options{
			"preset":    "ocean",
			"eye_shape": "leaf",
			"box_size":  12,
		})
		if err != nil {
			fmt.Printf("Invalid options: %s", err.Error())
			return
		}
		m, err := qrstyle.Encoder{}.Encode("https://example.com", 0, qrstyle.ECQuartile)
		if err != nil {
			fmt.Printf("Error encoding the payload: %s", err.Error())
			return
		}
		sym, report, err := qrstyle.Render(m, set.Style)
		if err != nil {
			fmt.Printf("Error rendering the symbol: %s", err.Error())
			return
		}
		if report.Fallback() {
			fmt.Println(report.Fallbacks)
		}
		batch := export.ExportAll(sym, set.Export)
		batch.WriteDir("out", "example")
	}

Rendering runs in fixed stages (matrix, modules, finder patterns, logo,
freeze); Pipeline exposes them one by one and Render runs them all. The frozen
Symbol is read-only and may be exported concurrently.
*/
package qrstyle
