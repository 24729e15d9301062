package expr

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Evaluator_EvaluateString(t *testing.T) {
	testCases := []struct {
		name    string
		dialect Dialect
		input   string
		expect  int
	}{
		{name: "single number", input: "42", expect: 42},
		{name: "surrounding whitespace", input: "   42  ", expect: 42},
		{name: "addition", input: "2+3", expect: 5},
		{name: "multiplication binds tighter than addition", input: "2+3*4", expect: 14},
		{name: "parentheses change evaluation order", input: "(2+3)*4", expect: 20},
		{name: "subtraction is left-associative", input: "10-4-3", expect: 3},
		{name: "division is left-associative", input: "100/10/5", expect: 2},
		{name: "division truncates", input: "7/2", expect: 3},
		{name: "mixed levels", input: "1+2*3-4/2", expect: 5},
		{name: "nested groups", input: "((((7))))", expect: 7},
		{name: "group as right operand", input: "2*(3+4)", expect: 14},
		{name: "subtraction into negative", input: "3-10", expect: -7},

		{name: "strict: factorial on right operand", input: "2*3!", expect: 12},
		{name: "strict: repeated factorial on right operand", input: "2*3!!", expect: 1440},
		{name: "strict: zero factorial on right operand", input: "1*0!", expect: 1},
		{name: "strict: percent on right operand", input: "3*250%", expect: 6},
		{name: "strict: factorial then percent apply left to right", input: "1*5!%", expect: 1},
		{name: "strict: factorial of group on right operand", input: "2*(1+2)!", expect: 12},
		{name: "strict: postfix on later operand of longer chain", input: "2*2*3!", expect: 24},
		{name: "strict: division by postfix operand", input: "100/4!", expect: 4},

		{name: "extended: factorial on left operand of chain", dialect: Extended, input: "3!*2", expect: 12},
		{name: "extended: bare factorial", dialect: Extended, input: "5!", expect: 120},
		{name: "extended: bare zero factorial", dialect: Extended, input: "0!", expect: 1},
		{name: "extended: bare percent", dialect: Extended, input: "250%", expect: 2},
		{name: "extended: factorial of group", dialect: Extended, input: "(2+3)!", expect: 120},
		{name: "extended: power", dialect: Extended, input: "2^10", expect: 1024},
		{name: "extended: power is left-associative", dialect: Extended, input: "2^3^2", expect: 64},
		{name: "extended: power binds tighter than multiplication", dialect: Extended, input: "2*3^2", expect: 18},
		{name: "extended: zero exponent", dialect: Extended, input: "7^0", expect: 1},
		{name: "extended: postfix binds tighter than power", dialect: Extended, input: "3!^2", expect: 36},
		{name: "extended: square", dialect: Extended, input: "sqr 4 + 1", expect: 17},
		{name: "extended: square of group", dialect: Extended, input: "SQR(1+2)", expect: 9},
		{name: "extended: double of group", dialect: Extended, input: "dbl(3+4)", expect: 14},
		{name: "extended: double then factorial", dialect: Extended, input: "dbl 2!", expect: 24},
		{name: "extended: strict expressions keep their value", dialect: Extended, input: "1+2*3-4/2", expect: 5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			ev := Evaluator{Dialect: tc.dialect}

			actual, err := ev.EvaluateString(tc.input)
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Evaluator_EvaluateString_errors(t *testing.T) {
	testCases := []struct {
		name        string
		dialect     Dialect
		input       string
		expectKind  ErrorKind
		expectIs    []error
		expectAtEnd bool
		expectTok   Kind
	}{
		{
			name:        "empty input",
			input:       "",
			expectKind:  UnexpectedToken,
			expectIs:    []error{ErrUnexpectedToken},
			expectAtEnd: true,
		},
		{
			name:        "trailing operator",
			input:       "2+",
			expectKind:  UnexpectedToken,
			expectIs:    []error{ErrUnexpectedToken},
			expectAtEnd: true,
		},
		{
			name:        "missing close paren",
			input:       "(2+3",
			expectKind:  UnexpectedToken,
			expectIs:    []error{ErrUnexpectedToken},
			expectAtEnd: true,
		},
		{
			name:       "mismatched close paren",
			input:      "(2+3 4)",
			expectKind: UnexpectedToken,
			expectIs:   []error{ErrUnexpectedToken},
			expectTok:  Number,
		},
		{
			name:       "close paren where terminal required",
			input:      ")",
			expectKind: UnexpectedToken,
			expectIs:   []error{ErrUnexpectedToken},
			expectTok:  Close,
		},
		{
			name:       "leading minus is not a terminal",
			input:      "-5",
			expectKind: UnexpectedToken,
			expectIs:   []error{ErrUnexpectedToken},
			expectTok:  Minus,
		},
		{
			name:       "no operator between terminals",
			input:      "2 3",
			expectKind: TrailingInput,
			expectIs:   []error{ErrTrailingInput},
			expectTok:  Number,
		},
		{
			name:       "extra close paren",
			input:      "(2))",
			expectKind: TrailingInput,
			expectIs:   []error{ErrTrailingInput},
			expectTok:  Close,
		},
		{
			name:       "division by zero",
			input:      "5/0",
			expectKind: ArithmeticDomain,
			expectIs:   []error{ErrArithmetic, ErrDivideByZero},
			expectTok:  Div,
		},
		{
			name:       "division by zero group",
			input:      "5/(3-3)",
			expectKind: ArithmeticDomain,
			expectIs:   []error{ErrArithmetic, ErrDivideByZero},
			expectTok:  Div,
		},
		{
			name:       "negative factorial",
			input:      "1*(0-3)!",
			expectKind: ArithmeticDomain,
			expectIs:   []error{ErrArithmetic, ErrNegativeFactorial},
			expectTok:  Fact,
		},
		{
			name:       "literal out of range",
			input:      "99999999999999999999",
			expectKind: LiteralFormat,
			expectIs:   []error{ErrLiteralFormat},
			expectTok:  Number,
		},
		{
			name:       "strict: factorial on left operand of chain is trailing",
			input:      "3!*2",
			expectKind: TrailingInput,
			expectIs:   []error{ErrTrailingInput},
			expectTok:  Fact,
		},
		{
			name:       "strict: factorial on additive operand is trailing",
			input:      "2+3!",
			expectKind: TrailingInput,
			expectIs:   []error{ErrTrailingInput},
			expectTok:  Fact,
		},
		{
			name:       "strict: bare factorial is trailing",
			input:      "0!",
			expectKind: TrailingInput,
			expectIs:   []error{ErrTrailingInput},
			expectTok:  Fact,
		},
		{
			name:       "strict: power is not an operator",
			input:      "2^3",
			expectKind: TrailingInput,
			expectIs:   []error{ErrTrailingInput},
			expectTok:  Pow,
		},
		{
			name:       "strict: square is not a terminal",
			input:      "sqr 3",
			expectKind: UnexpectedToken,
			expectIs:   []error{ErrUnexpectedToken},
			expectTok:  Square,
		},
		{
			name:       "extended: negative exponent",
			dialect:    Extended,
			input:      "2^(0-1)",
			expectKind: ArithmeticDomain,
			expectIs:   []error{ErrArithmetic, ErrNegativeExponent},
			expectTok:  Pow,
		},
		{
			name:       "extended: negative factorial",
			dialect:    Extended,
			input:      "(0-1)!",
			expectKind: ArithmeticDomain,
			expectIs:   []error{ErrArithmetic, ErrNegativeFactorial},
			expectTok:  Fact,
		},
		{
			name:        "extended: square without operand",
			dialect:     Extended,
			input:       "sqr",
			expectKind:  UnexpectedToken,
			expectIs:    []error{ErrUnexpectedToken},
			expectAtEnd: true,
		},
		{
			name:       "extended: square of square is not allowed",
			dialect:    Extended,
			input:      "sqr sqr 2",
			expectKind: UnexpectedToken,
			expectIs:   []error{ErrUnexpectedToken},
			expectTok:  Square,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			ev := Evaluator{Dialect: tc.dialect}

			_, err := ev.EvaluateString(tc.input)
			if !assert.Error(err) {
				return
			}

			var evalErr *Error
			if !assert.True(errors.As(err, &evalErr), "error is not an *Error: %v", err) {
				return
			}

			assert.Equal(tc.expectKind, evalErr.Kind)
			for _, target := range tc.expectIs {
				assert.ErrorIs(err, target)
			}

			assert.Equal(tc.expectAtEnd, evalErr.AtEnd())
			if !tc.expectAtEnd && assert.NotNil(evalErr.Token) {
				assert.Equal(tc.expectTok, evalErr.Token.Kind)
			}
		})
	}
}

func Test_Evaluate_stream(t *testing.T) {
	plus := NewToken(Plus, "")
	mul := NewToken(Mul, "")
	div := NewToken(Div, "")
	fact := NewToken(Fact, "")
	pct := NewToken(Percent, "")
	open := NewToken(Open, "")
	cls := NewToken(Close, "")

	testCases := []struct {
		name   string
		input  []Token
		expect int
	}{
		{name: "negative literal payload", input: []Token{Num(-7), div, Num(2)}, expect: -3},
		{name: "negative divisor truncates toward zero", input: []Token{Num(7), div, Num(-2)}, expect: -3},
		{name: "negative percent truncates toward zero", input: []Token{Num(1), mul, Num(-150), pct}, expect: -1},
		{name: "grouped sum", input: []Token{open, Num(2), plus, Num(3), cls, mul, Num(4)}, expect: 20},
		{name: "factorial", input: []Token{Num(1), mul, Num(4), fact}, expect: 24},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			s := NewStream(tc.input...)

			actual, err := Evaluate(s)
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expect, actual)
			assert.False(s.HasNext(), "stream was not drained")
		})
	}
}

func Test_Evaluate_divisionTruncatesTowardZero(t *testing.T) {
	assert := assert.New(t)

	for a := -20; a <= 20; a++ {
		for b := -7; b <= 7; b++ {
			if b == 0 {
				continue
			}

			actual, err := Evaluate(NewStream(Num(a), NewToken(Div, ""), Num(b)))
			if !assert.NoError(err, "%d / %d", a, b) {
				continue
			}
			assert.Equal(a/b, actual, "%d / %d", a, b)
		}
	}
}

func Test_Evaluate_factorial(t *testing.T) {
	assert := assert.New(t)

	expect := 1
	for n := 0; n <= 12; n++ {
		if n > 0 {
			expect *= n
		}

		actual, err := EvaluateString(fmt.Sprintf("1*%d!", n))
		if !assert.NoError(err, "%d!", n) {
			continue
		}
		assert.Equal(expect, actual, "%d!", n)

		actual, err = Evaluator{Dialect: Extended}.EvaluateString(fmt.Sprintf("%d!", n))
		if !assert.NoError(err, "extended %d!", n) {
			continue
		}
		assert.Equal(expect, actual, "extended %d!", n)
	}
}

func Test_Evaluate_percent(t *testing.T) {
	assert := assert.New(t)

	for _, n := range []int{-12345, -250, -99, 0, 99, 100, 199, 12345} {
		actual, err := Evaluate(NewStream(Num(1), NewToken(Mul, ""), Num(n), NewToken(Percent, "")))
		if !assert.NoError(err, "%d%%", n) {
			continue
		}
		assert.Equal(n/100, actual, "%d%%", n)
	}
}

func Test_Evaluate_literalFormat(t *testing.T) {
	assert := assert.New(t)

	_, err := Evaluate(NewStream(NewToken(Number, "12a")))

	assert.ErrorIs(err, ErrLiteralFormat)
	assert.Equal(`syntax error: "12a" is not a valid integer`, err.Error())
}

func Test_Evaluate_isDeterministic(t *testing.T) {
	assert := assert.New(t)

	const input = "(12+3)*4/7-2*3!%"

	first, err := EvaluateString(input)
	if !assert.NoError(err) {
		return
	}

	for i := 0; i < 10; i++ {
		again, err := EvaluateString(input)
		assert.NoError(err)
		assert.Equal(first, again)
	}
}

func Test_Evaluator_MaxDepth(t *testing.T) {
	nested := func(n int) string {
		return strings.Repeat("(", n) + "1" + strings.Repeat(")", n)
	}

	testCases := []struct {
		name      string
		maxDepth  int
		input     string
		expectErr bool
	}{
		{name: "at custom limit", maxDepth: 3, input: nested(3)},
		{name: "past custom limit", maxDepth: 3, input: nested(4), expectErr: true},
		{name: "at default limit", input: nested(DefaultMaxDepth)},
		{name: "past default limit", input: nested(DefaultMaxDepth + 1), expectErr: true},
		{name: "sequential groups do not accumulate", maxDepth: 1, input: "(1)+(2)*(3)"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			ev := Evaluator{MaxDepth: tc.maxDepth}

			_, err := ev.EvaluateString(tc.input)
			if tc.expectErr {
				assert.ErrorIs(err, ErrTooDeep)
				return
			}
			assert.NoError(err)
		})
	}
}

func Test_Error_messages(t *testing.T) {
	testCases := []struct {
		name       string
		input      string
		expect     string
		expectFull string
	}{
		{
			name:       "end of input",
			input:      "2+",
			expect:     "syntax error: unexpected end of expression; expected number or '('",
			expectFull: "syntax error: unexpected end of expression; expected number or '('",
		},
		{
			name:   "trailing token",
			input:  "2 3",
			expect: `syntax error: around line 1, char 3: unexpected trailing number "3" (NUMBER) after complete expression`,
			expectFull: "2 3\n" +
				"  ^\n" +
				`syntax error: around line 1, char 3: unexpected trailing number "3" (NUMBER) after complete expression`,
		},
		{
			name:   "unexpected token",
			input:  "(1+2*)",
			expect: "syntax error: around line 1, char 6: unexpected ')' (CLOSE); expected number or '('",
			expectFull: "(1+2*)\n" +
				"     ^\n" +
				"syntax error: around line 1, char 6: unexpected ')' (CLOSE); expected number or '('",
		},
		{
			name:   "division by zero",
			input:  "1/0",
			expect: "arithmetic error: around line 1, char 2: division by zero",
			expectFull: "1/0\n" +
				" ^\n" +
				"arithmetic error: around line 1, char 2: division by zero",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			_, err := EvaluateString(tc.input)

			var evalErr *Error
			if !assert.True(errors.As(err, &evalErr)) {
				return
			}

			assert.Equal(tc.expect, evalErr.Error())
			assert.Equal(tc.expectFull, evalErr.FullMessage())
		})
	}
}

func Test_ParseDialect(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    Dialect
		expectErr bool
	}{
		{name: "strict", input: "strict", expect: Strict},
		{name: "extended mixed case", input: "Extended", expect: Extended},
		{name: "padded", input: "  strict ", expect: Strict},
		{name: "unknown", input: "lenient", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := ParseDialect(tc.input)
			if tc.expectErr {
				assert.Error(err)
				return
			}
			assert.NoError(err)
			assert.Equal(tc.expect, actual)
		})
	}
}
