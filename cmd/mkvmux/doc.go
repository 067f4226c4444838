// Command mkvmux builds and runs mkvmerge command lines from declarative job
// files.
//
//	mkvmux info movie.mkv
//	mkvmux plan feature.toml
//	mkvmux mux feature.toml -o /media/Feature.mkv
//	mkvmux extract tracks movie.mkv --id 1 --dir out/
//	mkvmux doctor
package main
