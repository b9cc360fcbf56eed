// Command solar is the driver for the Solar compiler: source files in,
// object files and a linked executable out. Grounded on
// tawago/main.go's urfave/cli/v2 App shape, generalized to spec.md §6.3's
// CLI surface (--dump, --release, --output, exit codes 0/64/66/1).
package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"os/exec"

	"github.com/alecthomas/repr"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"

	"github.com/solar-lang/solarc/codegen"
	"github.com/solar-lang/solarc/config"
	"github.com/solar-lang/solarc/lexer"
	"github.com/solar-lang/solarc/parser"
	"github.com/solar-lang/solarc/typeinfo"
)

// usageError and ioError distinguish spec.md §6.3's exit codes 64 and 66
// from a generic backend failure (1) without threading exit codes
// through every function's return type.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

type ioError struct{ err error }

func (e ioError) Error() string { return e.err.Error() }
func (e ioError) Unwrap() error { return e.err }

func main() {
	app := &cli.App{
		Name:  "solar",
		Usage: "the Solar compiler",
		ExitErrHandler: func(c *cli.Context, err error) {
			if err == nil {
				return
			}
			switch e := err.(type) {
			case usageError:
				fmt.Fprintln(os.Stderr, e.msg)
				os.Exit(64)
			case ioError:
				tracerr.PrintSourceColor(tracerr.Wrap(e.err))
				os.Exit(66)
			default:
				tracerr.PrintSourceColor(tracerr.Wrap(err))
				os.Exit(1)
			}
		},
		Commands: []*cli.Command{
			buildCommand,
			initCommand,
			typeinfoCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}

var initCommand = &cli.Command{
	Name:  "init",
	Usage: "create a solar.yaml manifest in the current directory",
	Action: func(c *cli.Context) error {
		name := c.Args().First()
		if name == "" {
			return usageError{"solar init: a package name is required"}
		}
		if err := config.Init(name); err != nil {
			return ioError{err}
		}
		return nil
	},
}

var typeinfoCommand = &cli.Command{
	Name:  "typeinfo",
	Usage: "print the embedded typeinfo of a compiled module",
	Action: func(c *cli.Context) error {
		path := c.Args().First()
		if path == "" {
			return usageError{"solar typeinfo: a compiled module path is required"}
		}
		info, err := typeinfo.ReadFromFile(path)
		if err != nil {
			return ioError{err}
		}
		repr.Println(info)
		return nil
	},
}

var buildCommand = &cli.Command{
	Name:  "build",
	Usage: "compile Solar source files into an executable",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "dump", Usage: "print IR to stdout instead of linking"},
		&cli.BoolFlag{Name: "release", Usage: "enable optimizations, disable debug info"},
		&cli.StringFlag{Name: "output", Usage: "output executable name"},
		&cli.BoolFlag{Name: "dump-ast", Usage: "print the parsed AST instead of compiling"},
	},
	Action: func(c *cli.Context) error {
		paths := c.Args().Slice()
		if len(paths) == 0 {
			return usageError{"solar build: at least one source file is required"}
		}

		manifest, _ := config.Load()
		release := c.Bool("release") || manifest.Release

		var objects []string
		for _, path := range paths {
			obj, err := buildOne(c, path, release)
			if err != nil {
				return err
			}
			if obj != "" {
				objects = append(objects, obj)
			}
		}

		if c.Bool("dump") || c.Bool("dump-ast") || len(objects) == 0 {
			return nil
		}

		output := manifest.OutputName(c.String("output"))
		if output == "" {
			output = "program"
		}

		return link(objects, output)
	},
}

// buildOne compiles a single source file. It returns the emitted object
// file's path, or "" if --dump/--dump-ast means nothing was written.
func buildOne(c *cli.Context, path string, release bool) (string, error) {
	src, err := ioutil.ReadFile(path)
	if err != nil {
		return "", ioError{err}
	}

	p := parser.New(lexer.New(src))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e)
		}
		return "", fmt.Errorf("%s: %d parse error(s)", path, len(errs))
	}

	if c.Bool("dump-ast") {
		repr.Println(program)
		return "", nil
	}

	module, err := codegen.Compile(path, program, release)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}

	if err := typeinfo.Embed(typeinfo.FromProgram(program), module); err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}

	if c.Bool("dump") {
		fmt.Println(module.String())
		return "", nil
	}

	return emitObject(path, module)
}

// emitObject writes module's textual IR to a temp file and invokes the
// system's clang to assemble it to a native object file, matching
// tawago/main.go's shell-out-to-clang pattern.
func emitObject(sourcePath string, module fmt.Stringer) (string, error) {
	ir, err := ioutil.TempFile("", "solar-*.ll")
	if err != nil {
		return "", ioError{err}
	}
	defer os.Remove(ir.Name())
	defer ir.Close()

	if _, err := ir.WriteString(module.String()); err != nil {
		return "", ioError{err}
	}

	objPath := objectFileName(sourcePath)
	cmd := exec.Command("clang", "-c", "-o", objPath, ir.Name())
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("assembling %s: %w", sourcePath, err)
	}

	return objPath, nil
}

func link(objects []string, output string) error {
	args := append([]string{"-o", output}, objects...)
	cmd := exec.Command("clang", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("linking %s: %w", output, err)
	}
	return nil
}

func objectFileName(sourcePath string) string {
	base := sourcePath
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '/' {
			base = base[i+1:]
			break
		}
	}
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '.' {
			base = base[:i]
			break
		}
	}
	return base + ".o"
}
