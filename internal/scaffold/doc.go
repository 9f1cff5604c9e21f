// Package scaffold runs a resolved file-type generator end to end. It
// normalizes the target extension, interprets the generator's Result
// (content, redirect or abort), writes the file with overwrite
// confirmation, and hands written files to the post-processing pipeline.
package scaffold
