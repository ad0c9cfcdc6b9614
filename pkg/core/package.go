// pkg/core/package.go
package core

// Artifact is the output of a build: the component binary and the shared
// libraries it needs at runtime
type Artifact struct {
	Arch         string   // Architecture the artifact was built for
	BinaryPath   string   // Component binary inside the build directory
	LibraryPaths []string // Staged runtime libraries, in listing order
}

// Files returns every local file to push, libraries first
func (a *Artifact) Files() []string {
	files := make([]string, 0, len(a.LibraryPaths)+1)
	files = append(files, a.LibraryPaths...)
	return append(files, a.BinaryPath)
}
