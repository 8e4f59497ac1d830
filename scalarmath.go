package quantity

import "math"

// rule is one entry of a dimensional-analysis table.
type rule struct {
	a, b, result Kind
}

// ruleTable is indexed by the kinds of the two operands.
type ruleTable [numKinds][numKinds]struct {
	result  Kind
	defined bool
}

func (t *ruleTable) add(a, b, result Kind) {
	t[a][b].result = result
	t[a][b].defined = true
}

func (t *ruleTable) lookup(a, b Kind) (Kind, bool) {
	if !a.Valid() || !b.Valid() {
		return Number, false
	}
	e := t[a][b]
	return e.result, e.defined
}

// productRules lists each unordered pair once; the table holds both orders.
var productRules = []rule{
	{Length, Length, Area},
	{Length, Area, Volume},
	{Length, Frequency, Speed},
	{Length, FrequencySquared, Acceleration},
	{Length, AngularLength, Length},
	{Length, AngularSpeed, Speed},
	{Length, AngularAcceleration, Acceleration},
	{TimeLength, TimeLength, TimeLengthSquared},
	{TimeLength, Speed, Length},
	{TimeLength, Acceleration, Speed},
	{TimeLength, Frequency, Number},
	{TimeLength, FrequencySquared, Frequency},
	{TimeLength, AngularSpeed, AngularLength},
	{TimeLength, AngularAcceleration, AngularSpeed},
	{TimeLengthSquared, Acceleration, Length},
	{TimeLengthSquared, FrequencySquared, Number},
	{TimeLengthSquared, AngularAcceleration, AngularLength},
	{TimeLengthSquared, AccelerationFlux, Volume},
	{Speed, Frequency, Acceleration},
	{Speed, AngularSpeed, Acceleration},
	{Frequency, Frequency, FrequencySquared},
	{Frequency, AngularLength, AngularSpeed},
	{Frequency, AngularSpeed, AngularAcceleration},
	{FrequencySquared, AngularLength, AngularAcceleration},
	{FrequencySquared, Volume, AccelerationFlux},
	{Acceleration, Area, AccelerationFlux},
	{Probability, Probability, Probability},
	{Probability, Number, Number},
}

// quotientRules are ordered: a / b.
var quotientRules = []rule{
	{Number, TimeLength, Frequency},
	{Number, Frequency, TimeLength},
	{Number, TimeLengthSquared, FrequencySquared},
	{Number, FrequencySquared, TimeLengthSquared},
	{Length, TimeLength, Speed},
	{Length, Speed, TimeLength},
	{Length, TimeLengthSquared, Acceleration},
	{Length, Acceleration, TimeLengthSquared},
	{Length, AngularLength, Length},
	{Area, Length, Length},
	{Volume, Length, Area},
	{Volume, Area, Length},
	{Volume, TimeLengthSquared, AccelerationFlux},
	{Volume, AccelerationFlux, TimeLengthSquared},
	{Speed, TimeLength, Acceleration},
	{Speed, Acceleration, TimeLength},
	{Speed, Length, Frequency},
	{Speed, Frequency, Length},
	{Speed, AngularSpeed, Length},
	{Acceleration, Frequency, Speed},
	{Acceleration, Speed, Frequency},
	{Acceleration, Length, FrequencySquared},
	{Acceleration, FrequencySquared, Length},
	{Acceleration, AngularSpeed, Speed},
	{Acceleration, AngularAcceleration, Length},
	{Frequency, TimeLength, FrequencySquared},
	{Frequency, FrequencySquared, TimeLength},
	{FrequencySquared, Frequency, Frequency},
	{TimeLengthSquared, TimeLength, TimeLength},
	{AngularLength, TimeLength, AngularSpeed},
	{AngularLength, AngularSpeed, TimeLength},
	{AngularLength, TimeLengthSquared, AngularAcceleration},
	{AngularLength, AngularAcceleration, TimeLengthSquared},
	{AngularSpeed, TimeLength, AngularAcceleration},
	{AngularSpeed, Frequency, AngularLength},
	{AngularSpeed, AngularAcceleration, TimeLength},
	{AngularSpeed, AngularLength, Frequency},
	{AngularAcceleration, Frequency, AngularSpeed},
	{AngularAcceleration, FrequencySquared, AngularLength},
	{AngularAcceleration, AngularSpeed, Frequency},
	{AngularAcceleration, AngularLength, FrequencySquared},
	{AccelerationFlux, Area, Acceleration},
	{AccelerationFlux, Acceleration, Area},
	{AccelerationFlux, Volume, FrequencySquared},
	{AccelerationFlux, FrequencySquared, Volume},
}

var products, quotients = buildTables()

func buildTables() (*ruleTable, *ruleTable) {
	var mul, div ruleTable
	for k := Number; k < numKinds; k++ {
		// a bare number scales any quantity; so does a probability, except
		// another probability or a number, which have explicit rules.
		mul.add(Number, k, k)
		mul.add(k, Number, k)
		if k != Number {
			mul.add(Probability, k, k)
			mul.add(k, Probability, k)
		}
		div.add(k, Number, k)
		div.add(k, k, Number)
	}
	for _, r := range productRules {
		mul.add(r.a, r.b, r.result)
		mul.add(r.b, r.a, r.result)
	}
	for _, r := range quotientRules {
		div.add(r.a, r.b, r.result)
	}
	return &mul, &div
}

// ProductKind returns the kind of a*b, if defined.
func ProductKind(a, b Kind) (Kind, bool) { return products.lookup(a, b) }

// QuotientKind returns the kind of a/b, if defined.
func QuotientKind(a, b Kind) (Kind, bool) { return quotients.lookup(a, b) }

// Multiply returns a*b. The result kind comes from the product table, so
// Multiply(a, b) and Multiply(b, a) always agree.
func Multiply(a, b Scalar) (Scalar, error) {
	if !a.set || !b.set {
		return Scalar{}, opError("multiply", ErrNotSet, a.kind, b.kind)
	}
	k, ok := products.lookup(a.kind, b.kind)
	if !ok {
		return Scalar{}, opError("multiply", ErrUndefinedOperation, a.kind, b.kind)
	}
	return New(k, a.value*b.value), nil
}

// Divide returns a/b. A zero denominator fails with ErrDivideByZero whether
// or not the kind pair is defined.
func Divide(a, b Scalar) (Scalar, error) {
	if !a.set || !b.set {
		return Scalar{}, opError("divide", ErrNotSet, a.kind, b.kind)
	}
	if b.value == 0 {
		return Scalar{}, opError("divide", ErrDivideByZero, a.kind, b.kind)
	}
	k, ok := quotients.lookup(a.kind, b.kind)
	if !ok {
		return Scalar{}, opError("divide", ErrUndefinedOperation, a.kind, b.kind)
	}
	return New(k, a.value/b.value), nil
}

// Scale returns f*s with the kind of s.
func Scale(f float64, s Scalar) (Scalar, error) {
	return Multiply(Num(f), s)
}

var sqrtKinds = map[Kind]Kind{
	Area:              Length,
	TimeLengthSquared: TimeLength,
	FrequencySquared:  Frequency,
	Number:            Number,
}

// Sqrt returns the square root of an Area, TimeLengthSquared,
// FrequencySquared or Number.
func Sqrt(s Scalar) (Scalar, error) {
	k, ok := sqrtKinds[s.kind]
	if !ok {
		return Scalar{}, opError("sqrt", ErrUndefinedOperation, s.kind)
	}
	v, err := s.Value()
	if err != nil {
		return Scalar{}, err
	}
	if v < 0 {
		return Scalar{}, opError("sqrt", ErrOutOfRange, s.kind)
	}
	return New(k, math.Sqrt(v)), nil
}

func angleValue(op string, a Scalar) (float64, error) {
	if a.kind != AngularLength {
		return 0, opError(op, ErrUndefinedOperation, a.kind)
	}
	if !a.set {
		return 0, opError(op, ErrNotSet, a.kind)
	}
	return a.value, nil
}

// Cos returns the cosine of an angle.
func Cos(a Scalar) (float64, error) {
	v, err := angleValue("cos", a)
	if err != nil {
		return 0, err
	}
	return math.Cos(v), nil
}

// Sin returns the sine of an angle.
func Sin(a Scalar) (float64, error) {
	v, err := angleValue("sin", a)
	if err != nil {
		return 0, err
	}
	return math.Sin(v), nil
}

// Tan returns the tangent of an angle.
func Tan(a Scalar) (float64, error) {
	v, err := angleValue("tan", a)
	if err != nil {
		return 0, err
	}
	return math.Tan(v), nil
}

// Acos returns the angle whose cosine is x. x outside [-1,1] yields NaN, as
// math.Acos does.
func Acos(x float64) Scalar { return Radian.Of(math.Acos(x)) }

// Asin returns the angle whose sine is x.
func Asin(x float64) Scalar { return Radian.Of(math.Asin(x)) }

// Atan returns the angle whose tangent is x.
func Atan(x float64) Scalar { return Radian.Of(math.Atan(x)) }

// Atan2 returns the angle of the point (x, y). Both operands must be of the
// same kind. When both are exactly zero the angle is 0.
func Atan2(y, x Scalar) (Scalar, error) {
	vy, vx, err := sameKindValues("atan2", y, x)
	if err != nil {
		return Scalar{}, err
	}
	if vy == 0 && vx == 0 {
		return Radian.Of(0), nil
	}
	return Radian.Of(math.Atan2(vy, vx)), nil
}
