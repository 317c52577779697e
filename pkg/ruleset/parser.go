package ruleset

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"net/netip"
	"os"
	"strings"

	"github.com/miekg/dns"
	"golang.org/x/net/idna"
)

// ParseOptions controls list parsing.
type ParseOptions struct {
	Category   string
	Logger     *slog.Logger
	ErrorLimit int
}

type errorLimiter struct {
	limit int
	count int
}

// ParseFile reads one category list from disk and returns its RuleSet.
// A missing file is reported as the underlying os error so the caller can
// decide whether it is fatal.
func ParseFile(path string, opts ParseOptions) (*RuleSet, error) {
	file, err := os.Open(path) // #nosec G304 -- path is derived from the configured input directory.
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger(opts).Warn("failed to close input file", "path", path, "error", err)
		}
	}()

	return Parse(file, opts)
}

// Parse consumes raw list lines and produces a normalized RuleSet.
func Parse(r io.Reader, opts ParseOptions) (*RuleSet, error) {
	log := logger(opts)
	stats := ParseStats{}
	limiter := errorLimiter{limit: opts.ErrorLimit}
	b := newBuilder(opts.Category)

	scanner := bufio.NewScanner(r)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := stripBOM(scanner.Text())
		stats.TotalLines++
		line = strings.TrimSpace(line)
		if line == "" || isCommentLine(line) {
			continue
		}

		tokens := strings.Fields(line)
		// Hosts form: a leading IP field followed by hostnames. A lone
		// IP or CIDR is an entry in its own right, so only drop the
		// address when hostnames follow it.
		if len(tokens) > 1 && !isCommentToken(tokens[1]) {
			if addr, err := netip.ParseAddr(tokens[0]); err == nil && addr.IsValid() {
				tokens = tokens[1:]
			}
		}

		for _, token := range tokens {
			if isCommentToken(token) {
				break
			}
			entry, err := classify(token)
			if err != nil {
				stats.Invalid++
				limiter.log(log, opts.Category, lineNum, token, err)
				continue
			}
			b.add(entry)
			switch entry.Kind {
			case KindDomain:
				stats.Domains++
			case KindKeyword:
				stats.Keywords++
			case KindCIDR:
				stats.CIDRs++
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan list: %w", err)
	}

	limiter.summary(log, opts.Category, stats.Invalid)
	log.Info("parsed list",
		"category", opts.Category,
		"domains", stats.Domains,
		"keywords", stats.Keywords,
		"cidrs", stats.CIDRs,
		"invalid", stats.Invalid)
	return b.build(), nil
}

// classify turns a raw token into a canonical Entry.
func classify(token string) (Entry, error) {
	raw := token
	name := strings.TrimSpace(token)
	if name == "" {
		return Entry{}, fmt.Errorf("empty entry")
	}

	// AdBlock form: ||example.com^
	if strings.HasPrefix(name, "||") {
		name = strings.TrimSuffix(strings.TrimPrefix(name, "||"), "^")
		if name == "" {
			return Entry{}, fmt.Errorf("empty adblock entry")
		}
	}

	if prefix, err := netip.ParsePrefix(name); err == nil {
		return canonicalPrefix(raw, prefix)
	}
	if addr, err := netip.ParseAddr(name); err == nil {
		if addr.Zone() != "" {
			return Entry{}, fmt.Errorf("ip zones are not allowed in rules")
		}
		return canonicalPrefix(raw, netip.PrefixFrom(addr, addr.BitLen()))
	}

	// Wildcard form: *.example.com covers the same names as the bare
	// suffix, so it collapses to one.
	if strings.HasPrefix(name, "*.") {
		name = strings.TrimPrefix(name, "*.")
	}
	if strings.Contains(name, "*") {
		return Entry{}, fmt.Errorf("unsupported wildcard position")
	}
	// Reject URL fragments and AdBlock modifier syntax rather than
	// letting them leak into rule files as bogus hostnames.
	if strings.ContainsAny(name, "/:^|$@!") {
		return Entry{}, fmt.Errorf("invalid hostname")
	}

	canonical, err := normalizeDomain(name)
	if err != nil {
		return Entry{}, err
	}

	kind := KindDomain
	if !strings.Contains(canonical, ".") {
		kind = KindKeyword
	}
	return Entry{Raw: raw, Text: canonical, Kind: kind}, nil
}

func canonicalPrefix(raw string, prefix netip.Prefix) (Entry, error) {
	if !prefix.IsValid() {
		return Entry{}, fmt.Errorf("invalid ip prefix")
	}
	if prefix.Addr().Zone() != "" {
		return Entry{}, fmt.Errorf("ip zones are not allowed in rules")
	}
	return Entry{Raw: raw, Text: prefix.Masked().String(), Kind: KindCIDR}, nil
}

func normalizeDomain(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("empty domain")
	}
	lower := strings.ToLower(strings.TrimSuffix(trimmed, "."))
	if lower == "" {
		return "", fmt.Errorf("empty domain")
	}
	if !isASCII(lower) {
		ascii, err := idna.Lookup.ToASCII(lower)
		if err != nil {
			return "", fmt.Errorf("idna: %w", err)
		}
		lower = strings.ToLower(ascii)
	}
	if _, ok := dns.IsDomainName(lower); !ok {
		return "", fmt.Errorf("invalid domain")
	}
	return lower, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

func (l *errorLimiter) log(log *slog.Logger, category string, lineNum int, token string, err error) {
	if l.limit == 0 {
		return
	}
	if l.limit > 0 && l.count >= l.limit {
		l.count++
		return
	}
	l.count++
	log.Warn("invalid list entry", "category", category, "line", lineNum, "entry", token, "error", err)
}

func (l *errorLimiter) summary(log *slog.Logger, category string, invalid int) {
	if l.limit <= 0 {
		return
	}
	if invalid > l.limit {
		log.Warn("list parsing errors suppressed", "category", category, "errors", invalid, "logged", l.limit)
	}
}

func logger(opts ParseOptions) *slog.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return slog.Default()
}

func stripBOM(line string) string {
	return strings.TrimPrefix(line, "\ufeff")
}

func isCommentLine(line string) bool {
	return strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") || strings.HasPrefix(line, ";")
}

func isCommentToken(token string) bool {
	return strings.HasPrefix(token, "#") || strings.HasPrefix(token, "//") || strings.HasPrefix(token, ";")
}
