// Command agentbox-shaderc resolves #include directives across the
// WGSL sources under a directory and writes the flattened result to an
// output directory, skipping any shader whose resolved source hasn't
// changed since the last run.
package main

import (
	"flag"
	"log"

	"github.com/agentbox/agentbox/internal/shaderbuild"
)

func main() {
	srcDir := flag.String("src", "shaders", "directory of .wgsl sources")
	outDir := flag.String("out", "shaders/build", "directory to write flattened .wgsl files into")
	checksums := flag.String("checksums", "shaders/build/shader_checksums.txt", "path to the checksum cache file")
	flag.Parse()

	written, err := shaderbuild.ProcessDir(*srcDir, *outDir, *checksums)
	if err != nil {
		log.Fatalf("agentbox-shaderc: %v", err)
	}
	for _, name := range written {
		log.Printf("agentbox-shaderc: wrote %s", name)
	}
	if len(written) == 0 {
		log.Printf("agentbox-shaderc: nothing to do, all shaders unchanged")
	}
}
