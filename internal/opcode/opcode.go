// Package opcode derives message op-codes from TL-B interface descriptions.
//
// A contract may ship a .tlb file next to its source describing its inbound
// message bodies. Every declaration of the shape
//
//	increment query_id:uint64 = InternalMsgBody;
//
// yields a pair of 32-bit tags: the query form (CRC-32 of the declaration
// with the high bit cleared) and the response form (the same CRC with the
// high bit set). Contracts compute the same values with FunC "..."c string
// literals, so the pair reported here is what the dispatch code matches on.
package opcode

import (
	"bufio"
	"hash/crc32"
	"strings"
)

// Pair holds both derived forms of one operation tag.
type Pair struct {
	Name     string
	Query    uint32
	Response uint32
}

// Checksum returns the CRC-32/IEEE checksum of the given declaration text.
func Checksum(text string) uint32 {
	return crc32.ChecksumIEEE([]byte(text))
}

// Derive computes the query/response tag pair for one declaration.
func Derive(decl string) Pair {
	sum := Checksum(decl)
	return Pair{
		Name:     declName(decl),
		Query:    sum & 0x7fffffff,
		Response: sum | 0x80000000,
	}
}

// Extract scans interface-description text and derives a tag pair for every
// InternalMsgBody declaration found. It is reporting-only: nothing checks
// that the contract actually dispatches on these values.
func Extract(text string) []Pair {
	var pairs []Pair

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		decl, ok := normalizeDecl(scanner.Text())
		if !ok {
			continue
		}
		pairs = append(pairs, Derive(decl))
	}
	return pairs
}

// normalizeDecl strips the trailing semicolon and surrounding whitespace and
// reports whether the line is an InternalMsgBody declaration at all.
func normalizeDecl(line string) (string, bool) {
	decl := strings.TrimSpace(line)
	decl = strings.TrimSuffix(decl, ";")

	if strings.HasPrefix(decl, "//") {
		return "", false
	}
	eq := strings.Index(decl, "=")
	if eq <= 0 {
		return "", false
	}
	if strings.TrimSpace(decl[eq+1:]) != "InternalMsgBody" {
		return "", false
	}
	if declName(decl) == "" {
		return "", false
	}
	return decl, true
}

func declName(decl string) string {
	fields := strings.Fields(decl)
	if len(fields) == 0 {
		return ""
	}
	// combinator declarations may carry an explicit tag, e.g. "increment#1234"
	name, _, _ := strings.Cut(fields[0], "#")
	return name
}
