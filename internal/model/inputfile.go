package model

// InputFile identifies a source file of the analyzed project.
type InputFile struct {
	// AbsPath is the cleaned absolute path of the file.
	AbsPath string
	// RelPath is AbsPath relative to the project base directory, using '/' separators.
	RelPath string
}
