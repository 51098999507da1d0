package ziwei

// Bureau is one of the five-element bureaus (五行局).
type Bureau struct {
	Number int
	Name   string
}

// ResolveBureau derives the bureau from the Life palace's stem and branch.
func ResolveBureau(lifeStem, lifeBranch int) (Bureau, error) {
	const op = "ziwei.resolve_bureau"
	stemPair := lifeStem / 2
	if lifeStem < 0 || stemPair >= len(bureauTable) {
		return Bureau{}, lookupMiss(op, "bureauTable", stemPair)
	}
	if lifeBranch < 0 || lifeBranch > 11 {
		return Bureau{}, lookupMiss(op, "branch", lifeBranch)
	}
	n := bureauTable[stemPair][(lifeBranch/2)%3]
	return BureauByNumber(n)
}

// BureauByNumber returns the bureau for one of 2..6.
func BureauByNumber(n int) (Bureau, error) {
	name, ok := bureauNames[n]
	if !ok {
		return Bureau{}, lookupMiss("ziwei.bureau_by_number", "bureauNames", n)
	}
	return Bureau{Number: n, Name: name}, nil
}
