package hooks

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Direct URL extraction from a single already-isolated curl/wget invocation.
var urlExtractRe = regexp.MustCompile(`https?://[^\s"']+`)

// Allowlisted domains for network access
var allowedDomains = []string{
	"localhost",
	"127.0.0.1",
	"::1",
	"github.com",
	"api.github.com",
	"raw.githubusercontent.com",
	"registry.npmjs.org",
	"npmjs.com",
	"pypi.org",
	"files.pythonhosted.org",
	"pkg.go.dev",
	"proxy.golang.org",
	"sum.golang.org",
	"hub.docker.com",
	"registry.hub.docker.com",
	"docker.io",
	"ghcr.io",
	"crates.io",
	"rubygems.org",
	"repo.maven.apache.org",
	"dl.google.com",
	"storage.googleapis.com",
	"releases.hashicorp.com",
}

// NetworkFence is a preToolUse hook that blocks curl/wget to non-allowlisted domains.
func NetworkFence(input HookInput) (HookResult, int) {
	return NetworkFenceWithAllowlist(input, nil)
}

// NetworkFenceWithAllowlist uses custom allowedDomains; if nil or empty, uses built-in list.
func NetworkFenceWithAllowlist(input HookInput, customDomains []string) (HookResult, int) {
	if input.ToolName != "Shell" {
		return Allow(), 0
	}

	cmd := input.Command()
	if cmd == "" {
		return Allow(), 0
	}

	calls := networkCalls(cmd)
	if len(calls) == 0 {
		return Allow(), 0
	}

	list := customDomains
	if len(list) == 0 {
		list = allowedDomains
	}

	for _, call := range calls {
		urls := urlExtractRe.FindAllString(call, -1)
		for _, rawURL := range urls {
			parsed, err := url.Parse(rawURL)
			if err != nil {
				continue
			}

			host := parsed.Hostname()
			if !isDomainAllowedWith(host, list) {
				return Deny("Blocked: network request to non-allowlisted host: " + host), 2
			}
		}
	}

	return Allow(), 0
}

// networkCalls returns the printed source of every curl/wget invocation in
// cmd, parsed as shell syntax so a literal "curl" inside a quoted string or
// comment elsewhere in the command doesn't trigger a false positive. Falls
// back to the raw command text on a parse failure (an unclosed quote, say)
// so a malformed command is still inspected rather than waved through.
func networkCalls(cmd string) []string {
	file, err := syntax.NewParser().Parse(strings.NewReader(cmd), "")
	if err != nil {
		if strings.Contains(cmd, "curl") || strings.Contains(cmd, "wget") {
			return []string{cmd}
		}
		return nil
	}

	printer := syntax.NewPrinter()
	var calls []string
	syntax.Walk(file, func(node syntax.Node) bool {
		call, ok := node.(*syntax.CallExpr)
		if !ok || len(call.Args) == 0 {
			return true
		}
		var head bytes.Buffer
		if err := printer.Print(&head, call.Args[0]); err != nil {
			return true
		}
		name := head.String()
		if name != "curl" && name != "wget" &&
			!strings.HasSuffix(name, "/curl") && !strings.HasSuffix(name, "/wget") {
			return true
		}
		var full bytes.Buffer
		if err := printer.Print(&full, call); err == nil {
			calls = append(calls, full.String())
		}
		return true
	})
	return calls
}

func isDomainAllowedWith(host string, list []string) bool {
	for _, allowed := range list {
		if host == allowed {
			return true
		}
		if strings.HasSuffix(host, "."+allowed) {
			return true
		}
	}
	return false
}
