package loader

import (
	"fmt"

	"github.com/joho/godotenv"
)

// DotenvLoader reads COPYLINE_* settings from a .env file. Variables use
// the same names and mappings as the process environment.
type DotenvLoader struct {
	fs   FileSystem
	path string
	env  *EnvLoader
}

// NewDotenvLoader creates a loader for the .env file at path.
func NewDotenvLoader(fsys FileSystem, path, prefix string) *DotenvLoader {
	if fsys == nil {
		fsys = DefaultFS()
	}
	return &DotenvLoader{fs: fsys, path: path, env: NewEnvLoader(prefix)}
}

// Load implements Loader. A missing file yields nil, nil.
func (l *DotenvLoader) Load() (map[string]any, error) {
	data, err := readFile(l.fs, l.path)
	if err != nil || data == nil {
		return nil, err
	}
	vars, err := godotenv.Unmarshal(string(data))
	if err != nil {
		return nil, &ParseError{Path: l.path, Message: err.Error(), Err: err}
	}

	pairs := make([]string, 0, len(vars))
	for k, v := range vars {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, v))
	}
	env := *l.env
	env.environ = func() []string { return pairs }
	return env.Load()
}
