// Package policy holds the taint-mode policy tables (spec.md §6):
// three enumerated, case-insensitively-matched sets of fully-qualified
// method names — taint sources, possible sinks, and string
// combinators — plus an optional database-backed override store.
package policy

import "strings"

// Policy is the taint-mode configuration. Defaults are seeded with
// JDBC-shaped method names, the same vocabulary the teacher's
// internal/database package already recognizes as SQL-injection-prone
// call sites.
type Policy struct {
	Sources      []string
	Sinks        []string
	Combinators  []string
}

// Default returns the built-in policy tables.
func Default() Policy {
	return Policy{
		Sources: []string{
			"java.io.BufferedReader.readLine",
			"java.util.Scanner.nextLine",
			"java.util.Scanner.next",
			"javax.servlet.http.HttpServletRequest.getParameter",
			"System.console.readLine",
		},
		Sinks: []string{
			"java.sql.Statement.executeQuery",
			"java.sql.Statement.execute",
			"java.sql.Statement.executeUpdate",
			"java.sql.Connection.prepareStatement",
			"java.sql.Connection.prepareCall",
		},
		Combinators: []string{
			"java.lang.StringBuilder.append",
			"java.lang.StringBuffer.append",
			"java.lang.String.concat",
			"java.lang.String.format",
		},
	}
}

// match reports whether name matches any entry in set, ignoring case.
func match(set []string, name string) bool {
	for _, s := range set {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}

// IsSource reports whether name is a configured taint source.
func (p Policy) IsSource(name string) bool { return match(p.Sources, name) }

// IsSink reports whether name is a configured possible sink.
func (p Policy) IsSink(name string) bool { return match(p.Sinks, name) }

// IsCombinator reports whether name is a configured string combinator.
func (p Policy) IsCombinator(name string) bool { return match(p.Combinators, name) }

// WithOverrides returns a copy of p with extra entries appended —
// used to layer Store overrides over the built-in defaults.
func (p Policy) WithOverrides(extraSources, extraSinks, extraCombinators []string) Policy {
	return Policy{
		Sources:     append(append([]string{}, p.Sources...), extraSources...),
		Sinks:       append(append([]string{}, p.Sinks...), extraSinks...),
		Combinators: append(append([]string{}, p.Combinators...), extraCombinators...),
	}
}
