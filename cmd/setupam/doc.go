// Command setupam compiles directories of recorded speakers into a CMU
// Sphinx training corpus.
//
// Typical usage:
//
//	setupam build an4 -s ./voxforge -t ./models
//	setupam inspect ./voxforge/alice-20080101
//	setupam history
//	setupam history show 3f2a
//	setupam config init
package main
