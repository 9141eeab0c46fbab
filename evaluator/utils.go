package eval

import (
	"fmt"
	"math"
	"strconv"

	"github.com/havrydotdev/treelox/token"
)

// only nil and false are falsy
func isTruthy(value any) bool {
	if value == nil {
		return false
	}

	val, ok := value.(bool)
	if ok {
		return val
	}

	return true
}

// isEqual never converts between types. Every runtime value is comparable
// with ==: numbers, strings and booleans by value, the rest by identity.
func isEqual(left, right any) bool {
	return left == right
}

func checkNums(op token.Token, left, right any) (float64, float64, error) {
	l, okl := left.(float64)
	r, okr := right.(float64)
	if !okl || !okr {
		return 0, 0, newRuntimeError(op, fmt.Sprintf("Operands of '%s' must be numbers.", op.Lexeme))
	}

	return l, r, nil
}

// Stringify renders a runtime value the way print shows it.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(v)
	case float64:
		switch {
		case math.IsInf(v, 1):
			return "Infinity"
		case math.IsInf(v, -1):
			return "-Infinity"
		}

		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	}

	return fmt.Sprintf("%v", value)
}
