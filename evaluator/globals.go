package eval

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	env "github.com/havrydotdev/treelox/environment"
)

func newClock() *NativeFun {
	start := time.Now()
	base := float64(start.UnixNano()) / float64(time.Second)

	return NewNativeFun("clock", 0, func(in *Interpreter, args []any) (any, error) {
		// monotonic reading so deltas never go backwards
		return base + time.Since(start).Seconds(), nil
	})
}

func newPrint() *NativeFun {
	return NewNativeFun("print", 1, func(in *Interpreter, args []any) (any, error) {
		_, err := fmt.Fprintln(in.out, Stringify(args[0]))
		return nil, err
	})
}

// newRead prints its argument as a prompt and returns the next input line,
// as a number when it parses as one. nil at end of input.
func newRead() *NativeFun {
	return NewNativeFun("read", 1, func(in *Interpreter, args []any) (any, error) {
		if _, err := fmt.Fprint(in.out, Stringify(args[0])); err != nil {
			return nil, err
		}

		line, err := in.in.ReadString('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return nil, err
			}

			if line == "" {
				return nil, nil
			}
		}

		line = strings.TrimRight(line, "\r\n")
		if num, ok := parseNumber(line); ok {
			return num, nil
		}

		return line, nil
	})
}

// parseNumber accepts plain decimal notation only; no hex, inf or nan.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(strings.ToLower(s), "inx_") {
		return 0, false
	}

	num, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}

	return num, true
}

func newGlobals() *env.Env {
	global := env.New()
	for _, fn := range []*NativeFun{newClock(), newPrint(), newRead()} {
		global.Define(fn.name, fn)
	}

	return global
}
