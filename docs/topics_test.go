package docs

import (
	"strings"
	"testing"

	"github.com/etnz/performance"
	"github.com/google/go-cmp/cmp"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// codeBlocks returns the content of the fenced code blocks of lang in a topic.
func codeBlocks(t *testing.T, topic, lang string) []string {
	t.Helper()
	content, err := GetTopic(topic)
	if err != nil {
		t.Fatal(err)
	}
	source := []byte(content)
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	var blocks []string
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !ok || !entering || fcb.Info == nil {
			return ast.WalkContinue, nil
		}
		if string(fcb.Info.Segment.Value(source)) != lang {
			return ast.WalkContinue, nil
		}
		var b strings.Builder
		for i := 0; i < fcb.Lines().Len(); i++ {
			line := fcb.Lines().At(i)
			b.Write(line.Value(source))
		}
		blocks = append(blocks, b.String())
		return ast.WalkContinue, nil
	})
	return blocks
}

func TestStatementExamples(t *testing.T) {
	blocks := codeBlocks(t, "statement", "jsonl")
	if len(blocks) == 0 {
		t.Fatal("statement topic has no jsonl example")
	}
	for _, block := range blocks {
		entities, err := performance.DecodeStatement(strings.NewReader(block))
		if err != nil {
			t.Errorf("DecodeStatement() error = %v in example:\n%s", err, block)
			continue
		}
		if len(entities) == 0 {
			t.Errorf("example has no entity:\n%s", block)
		}
	}
}

func TestRatesExamples(t *testing.T) {
	blocks := codeBlocks(t, "rates", "jsonl")
	if len(blocks) == 0 {
		t.Fatal("rates topic has no jsonl example")
	}
	for _, block := range blocks {
		conv := performance.NewForexConverter("EUR")
		if err := conv.DecodeRates(strings.NewReader(block)); err != nil {
			t.Errorf("DecodeRates() error = %v in example:\n%s", err, block)
		}
	}
}

func TestGetTopics(t *testing.T) {
	all, err := GetAllTopics()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"irr", "rates", "readme", "statement"}, all); diff != "" {
		t.Errorf("GetAllTopics() mismatch (-want +got):\n%s", diff)
	}

	got, err := GetTopics("*")
	if err != nil {
		t.Fatal(err)
	}
	for _, title := range []string{"# mwr", "# Statement", "# Exchange rates", "# Money-weighted return"} {
		if !strings.Contains(got, title) {
			t.Errorf("GetTopics(*) does not contain %q", title)
		}
	}
	if _, err := GetTopic("nope"); err == nil {
		t.Error("GetTopic(\"nope\") succeeded, want an error")
	}
}
