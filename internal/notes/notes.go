// Package notes turns the free-text special notes attached to packages into
// typed constraints. Only the parser reads raw text; everything downstream
// works on domain.Constraint values.
package notes

import (
	"delivery-scheduler/internal/domain"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// DefaultCorrectionCutoff is when a wrong-address package's real address becomes known.
const DefaultCorrectionCutoff = 10*time.Hour + 20*time.Minute

var (
	shipWithRe  = regexp.MustCompile(`(?i)\bmust\s+(?:ship|be\s+delivered)\s+with\b(.*)$`)
	vehicleRe   = regexp.MustCompile(`(?i)\bcan\s+only\s+be\s+on\s+(?:vehicle|truck)\s*#?\s*(\d+)`)
	delayedRe   = regexp.MustCompile(`(?i)\b(?:delayed|will\s+not\s+arrive)\b.*?\buntil\s+(\d{1,2}:\d{2}(?:\s*[ap]\.?m\.?)?)`)
	wrongAddrRe = regexp.MustCompile(`(?i)\b(?:wrong\s+address|address\s+incorrect)\b`)
	correctAtRe = regexp.MustCompile(`(?i)\bcorrected\s+after\s+(\d{1,2}:\d{2}(?:\s*[ap]\.?m\.?)?)`)
)

// Parse interprets notes for a package delivered on day. Unrecognized text
// yields no constraints.
func Parse(notes string, day time.Time) ([]domain.Constraint, error) {
	text := strings.TrimSpace(notes)
	if text == "" {
		return nil, nil
	}

	var out []domain.Constraint

	if m := shipWithRe.FindStringSubmatch(text); m != nil {
		ids, err := parseIDs(m[1])
		if err != nil {
			return nil, fmt.Errorf("parse notes %q: %w", notes, err)
		}
		if len(ids) == 0 {
			return nil, fmt.Errorf("parse notes %q: must ship with lists no package ids", notes)
		}
		out = append(out, domain.MustShipWith{PackageIDs: ids})
	}

	if m := vehicleRe.FindStringSubmatch(text); m != nil {
		id, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("parse notes %q: vehicle id: %w", notes, err)
		}
		out = append(out, domain.RequiresVehicle{VehicleID: id})
	}

	if m := delayedRe.FindStringSubmatch(text); m != nil {
		offset, err := domain.ParseClock(m[1])
		if err != nil {
			return nil, fmt.Errorf("parse notes %q: %w", notes, err)
		}
		out = append(out, domain.AvailableAfter{At: domain.OnDay(day, offset)})
	}

	if wrongAddrRe.MatchString(text) {
		cutoff := DefaultCorrectionCutoff
		if m := correctAtRe.FindStringSubmatch(text); m != nil {
			offset, err := domain.ParseClock(m[1])
			if err != nil {
				return nil, fmt.Errorf("parse notes %q: %w", notes, err)
			}
			cutoff = offset
		}
		out = append(out, domain.AddressCorrection{After: domain.OnDay(day, cutoff)})
	}

	return out, nil
}

// parseIDs reads the id list that opens s ("13, 15 and 19") and stops at the
// first word that is not an id, so clock times in a following clause are
// never taken for package ids.
func parseIDs(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || unicode.IsSpace(r) })

	var ids []int
	for _, f := range fields {
		if strings.EqualFold(f, "and") || f == "&" {
			continue
		}
		tok := strings.TrimPrefix(strings.TrimRight(f, ".;"), "#")
		if tok == "" || strings.TrimLeft(tok, "0123456789") != "" {
			break
		}
		id, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("package id %q: %w", tok, err)
		}
		ids = append(ids, id)
		if tok != strings.TrimPrefix(f, "#") {
			// Sentence punctuation closes the list.
			break
		}
	}
	return ids, nil
}
