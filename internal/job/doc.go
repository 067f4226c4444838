// Package job reads declarative mux jobs from TOML and turns them into an
// mkv.File.
//
// A job names its output, the inputs to read tracks from (optionally a subset
// with per-track overrides), new attachments, chapters, tags, linking, and a
// split strategy. Every value goes through the same validating setters a Go
// caller would use, so a job file can never produce a command the library
// would reject. Relative paths resolve against the job file's directory.
//
//	output = "Feature.mkv"
//	title  = "Feature"
//
//	[[inputs]]
//	path   = "rip.mkv"
//	tracks = [0, 1]
//
//	[[inputs.track]]
//	id       = 1
//	language = "ger"
//	default  = true
//
//	[split]
//	mode = "size"
//	size = "4GiB"
package job
