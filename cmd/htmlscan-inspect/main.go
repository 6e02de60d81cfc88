// Command htmlscan-inspect runs the htmlscan analyzer over an HTML
// fragment read from a file argument or stdin, and prints the resulting
// flags, rendered text, images, URL exceptions, and (with -find-text-urls)
// URLs found in the rendered text — a manual-triage tool for a suspect
// message body, in the spirit of the teacher's cmd/cssdebug.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/rspamd-contrib/htmlscan/htmlscan"
)

func main() {
	allowCSS := flag.Bool("css", true, "parse <style> blocks")
	findText := flag.Bool("find-text-urls", false, "sweep rendered text for bare http(s) URLs")
	flag.Parse()

	input, err := readInput(flag.Args())
	if err != nil {
		log.Fatalf("htmlscan-inspect: %v", err)
	}

	doc, parsed := htmlscan.Process(input, &htmlscan.ProcessOptions{
		AllowCSS:     *allowCSS,
		FindTextURLs: *findText,
	})

	fmt.Printf("flags: %#x\n", uint32(doc.Flags))
	fmt.Printf("tags: %d\n", doc.TagCount)
	fmt.Printf("background: #%02x%02x%02x\n", doc.BGColor.R, doc.BGColor.G, doc.BGColor.B)
	if doc.BaseURL != nil {
		fmt.Printf("base: %s\n", doc.BaseURL.Full)
	}
	fmt.Printf("rendered text:\n%s\n", parsed)

	if len(doc.Images) > 0 {
		fmt.Println("images:")
		for _, img := range doc.Images {
			fmt.Printf("  src=%q flags=%#x %dx%d\n", img.Src, uint32(img.Flags), img.Width, img.Height)
		}
	}

	if len(doc.Exceptions) > 0 {
		fmt.Println("exceptions:")
		for _, ex := range doc.Exceptions {
			ref := ""
			if ex.Ref != nil {
				ref = ex.Ref.Full
			}
			fmt.Printf("  pos=%d len=%d ref=%s\n", ex.Pos, ex.Len, ref)
		}
	}

	if len(doc.PartURLs) > 0 {
		fmt.Println("text urls:")
		for _, u := range doc.PartURLs {
			fmt.Printf("  %s\n", u.Full)
		}
	}
}

func readInput(args []string) ([]byte, error) {
	if len(args) > 0 {
		return os.ReadFile(args[0])
	}
	return io.ReadAll(os.Stdin)
}
