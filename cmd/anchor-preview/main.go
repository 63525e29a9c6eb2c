package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/grynov/collabora-online/canvas"
)

func main() {
	out := flag.String("out", "anchor_preview.png", "output PNG path")
	split := flag.Bool("split", false, "render the split change view instead of the single pane")
	zoom := flag.Float64("zoom", 1, "document zoom factor")
	debug := flag.Bool("debug", false, "outline and label section placements")
	version := flag.Bool("version", false, "print the library version and exit")
	flag.Parse()

	if *version {
		fmt.Println(canvas.Version)
		return
	}

	opts := canvas.DefaultContainerOptions()
	opts.Zoom = *zoom
	opts.Debug = *debug
	container := canvas.New(opts)

	// A two-line comment anchor plus a word on the next paragraph, in
	// twips. The junk descriptor exercises the silent-drop path.
	descs := []string{
		"1440, 1440, 5040, 240",
		"1440, 1680, 3600, 240",
		"not-a-rect",
		"2880, 2400, 1440, 240",
	}

	if *split {
		left := canvas.NewAnchorSection(container, canvas.SideLeft)
		right := canvas.NewAnchorSection(container, canvas.SideRight)
		for _, s := range []*canvas.AnchorSection{left, right} {
			if err := container.AddSection(s); err != nil {
				fmt.Fprintf(os.Stderr, "add section: %v\n", err)
				os.Exit(1)
			}
		}
		// The right pane sits beside the left one, so its anchors are
		// shifted half a page over.
		left.DrawAnchorRectangles(descs, canvas.RedlineDelete)
		right.DrawAnchorRectangles([]string{
			"8640, 1440, 5040, 240",
			"8640, 1680, 3600, 240",
			"10080, 2400, 1440, 240",
		}, canvas.RedlineInsert)
	} else {
		section := canvas.NewAnchorSection(container, canvas.SideNone)
		if err := container.AddSection(section); err != nil {
			fmt.Fprintf(os.Stderr, "add section: %v\n", err)
			os.Exit(1)
		}
		section.DrawAnchorRectangles(descs, "")
	}

	frame := container.Paint()
	if err := canvas.NewCanvas(frame).SavePNG(*out); err != nil {
		fmt.Fprintf(os.Stderr, "save: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", *out)
}
