package docs

import (
	"bufio"
	"os"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// The readme is the topic index: every topic it lists must load, and every
// topic file must be listed.
func TestReadmeListsAllTopics(t *testing.T) {
	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var listed []string
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if matches := topicRegex.FindStringSubmatch(scanner.Text()); len(matches) > 1 {
			listed = append(listed, strings.TrimSpace(matches[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatal(err)
	}

	for _, topic := range listed {
		t.Run("load_"+topic, func(t *testing.T) {
			if _, err := Topic(topic); err != nil {
				t.Errorf("failed to get topic %q: %v", topic, err)
			}
		})
	}

	all, err := AllTopics()
	if err != nil {
		t.Fatal(err)
	}
	for _, topic := range all {
		if !slices.Contains(listed, topic) {
			t.Errorf("topic %q is not listed in readme.md", topic)
		}
	}
}

// Every topic must be a well-formed document: exactly one top-level
// heading, and it must come first.
func TestTopicsHaveSingleTitle(t *testing.T) {
	all, err := AllTopics()
	if err != nil {
		t.Fatal(err)
	}
	all = append(all, "readme")

	for _, topic := range all {
		t.Run(topic, func(t *testing.T) {
			content, err := Topic(topic)
			if err != nil {
				t.Fatal(err)
			}
			source := []byte(content)
			root := goldmark.DefaultParser().Parse(text.NewReader(source))

			titles := 0
			first := true
			ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
				if !entering {
					return ast.WalkContinue, nil
				}
				if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
					titles++
					if !first {
						t.Errorf("H1 is not the first block of %s.md", topic)
					}
				}
				if _, isDoc := n.(*ast.Document); !isDoc {
					first = false
				}
				return ast.WalkContinue, nil
			})
			if titles != 1 {
				t.Errorf("%s.md has %d H1 headings, want exactly 1", topic, titles)
			}
		})
	}
}

func TestTopicStar(t *testing.T) {
	content, err := Topic("*")
	if err != nil {
		t.Fatalf("Topic(*) = %v", err)
	}
	for _, want := range []string{"# Envelope budgeting", "# Exchange rates", "# Capital gains"} {
		if !strings.Contains(content, want) {
			t.Errorf("Topic(*) missing %q", want)
		}
	}
}

func TestUnknownTopic(t *testing.T) {
	if _, err := Topic("nonexistent"); err == nil {
		t.Error("unknown topic did not fail")
	}
}
