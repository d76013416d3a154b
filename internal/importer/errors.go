package importer

import "errors"

// ErrNoRows marks a pre-flight failure: the run never received an input
// row list to read.
var ErrNoRows = errors.New("no input rows provided")
