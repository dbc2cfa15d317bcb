package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

// headTagNames are the tags recognized by the head reformatter. The split is
// a lookahead on these names, not a parse.
var headTagNames = []string{
	"title", "meta", "link", "script", "style", "base", "noscript", "preload",
}

const headIndent = indentUnit + indentUnit

// InjectContext carries the two JSON payloads injected as inline scripts.
// A nil value means the corresponding script is omitted entirely; a non-nil
// empty map still produces a script assigning an empty object.
type InjectContext struct {
	Request any
	App     any
}

// InjectContent splices rendered output into a template that already passed
// ProcessTemplate. All operations are plain string substitutions; the only
// failure mode is a JSON marshal error on a context value, which indicates a
// programming error in the caller and is returned as-is.
func InjectContent(template, headContent, bodyContent string, ctx InjectContext, cdnBaseURL string) (string, error) {
	out := strings.Replace(template, "<!--"+HeadMarker+"-->", reformatHead(headContent), 1)
	out = strings.Replace(out, "<!--"+OutletMarker+"-->", bodyContent, 1)

	scripts, err := contextScripts(ctx)
	if err != nil {
		return "", err
	}
	out = strings.Replace(out, "<!--"+ContextScriptsMarker+"-->", scripts, 1)

	if cdnBaseURL != "" {
		out = strings.ReplaceAll(out, CDNPlaceholder, strings.TrimRight(cdnBaseURL, "/"))
	} else {
		out = strings.ReplaceAll(out, CDNPlaceholder, "")
	}

	return out, nil
}

// reformatHead splits a flat concatenation of head tags into one tag per
// line by cutting immediately before each recognized head tag name.
func reformatHead(headContent string) string {
	trimmed := strings.TrimSpace(headContent)
	if trimmed == "" {
		return ""
	}

	var tags []string
	start := 0
	for i := 1; i < len(trimmed); i++ {
		if trimmed[i] == '<' && startsHeadTag(trimmed[i+1:]) {
			if segment := strings.TrimSpace(trimmed[start:i]); segment != "" {
				tags = append(tags, segment)
			}
			start = i
		}
	}
	if segment := strings.TrimSpace(trimmed[start:]); segment != "" {
		tags = append(tags, segment)
	}

	return strings.Join(tags, "\n"+headIndent)
}

func startsHeadTag(s string) bool {
	lower := strings.ToLower(s)
	for _, name := range headTagNames {
		if strings.HasPrefix(lower, name) {
			return true
		}
	}
	return false
}

// contextScripts builds the inline scripts for the request context and app
// config payloads. encoding/json escapes every literal "<" as <, which
// keeps a payload from closing the script tag early.
func contextScripts(ctx InjectContext) (string, error) {
	var tags []string

	if ctx.Request != nil {
		tag, err := contextScript(RequestContextGlobal, ctx.Request)
		if err != nil {
			return "", fmt.Errorf("failed to serialize request context: %w", err)
		}
		tags = append(tags, tag)
	}
	if ctx.App != nil {
		tag, err := contextScript(AppConfigGlobal, ctx.App)
		if err != nil {
			return "", fmt.Errorf("failed to serialize app config: %w", err)
		}
		tags = append(tags, tag)
	}

	return strings.Join(tags, "\n"), nil
}

func contextScript(global string, value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return "<script>window." + global + " = " + string(data) + ";</script>", nil
}
