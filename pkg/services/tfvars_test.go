package services

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newtglobalgit/dmap-saas-request/pkg/models"
)

const sampleTFVars = `resource_group_name = "dmap-saas"
location            = "eastus"

tags = {
  "Owner"   = "placeholder"
  "Env"     = "dev"
}

vm_size = "Standard_D4s_v3"
`

var jane = models.ResourceRequest{
	FullName:    "Jane Doe",
	Email:       "jane@acme.com",
	Company:     "Acme",
	Designation: "Engineer",
}

func TestReplaceTagsBlock(t *testing.T) {
	got, err := ReplaceTagsBlock(sampleTFVars, jane)
	require.NoError(t, err)

	want := `resource_group_name = "dmap-saas"
location            = "eastus"

tags = {
  "Owner"       = "Jane Doe"
  "Email"       = "jane@acme.com"
  "Company"     = "Acme"
  "Designation" = "Engineer"
}

vm_size = "Standard_D4s_v3"
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReplaceTagsBlock() mismatch (-want +got):\n%s", diff)
	}
	assert.NotContains(t, got, `"Phone"`)
}

func TestReplaceTagsBlock_WithPhone(t *testing.T) {
	req := jane
	req.Phone = "+12345678901"

	got, err := ReplaceTagsBlock(sampleTFVars, req)
	require.NoError(t, err)
	assert.Contains(t, got, "  \"Designation\" = \"Engineer\"\n  \"Phone\"       = \"+12345678901\"\n}\n")
}

func TestReplaceTagsBlock_Idempotent(t *testing.T) {
	first, err := ReplaceTagsBlock(sampleTFVars, jane)
	require.NoError(t, err)

	second, err := ReplaceTagsBlock(first, jane)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, strings.Count(second, "tags = {"))
}

func TestReplaceTagsBlock_OnlyTagValuesChange(t *testing.T) {
	first, err := ReplaceTagsBlock(sampleTFVars, jane)
	require.NoError(t, err)

	changed := jane
	changed.Company = "Globex"
	second, err := ReplaceTagsBlock(first, changed)
	require.NoError(t, err)

	a := strings.Split(first, "\n")
	b := strings.Split(second, "\n")
	require.Len(t, b, len(a))
	var differing []int
	for i := range a {
		if a[i] != b[i] {
			differing = append(differing, i)
		}
	}
	require.Len(t, differing, 1)
	assert.Equal(t, `  "Company"     = "Globex"`, b[differing[0]])
}

func TestReplaceTagsBlock_NotFound(t *testing.T) {
	_, err := ReplaceTagsBlock("location = \"eastus\"\ndefault_tags = {\n}\n", jane)
	assert.ErrorIs(t, err, ErrTagsBlockNotFound)
}

func TestReplaceTagsBlock_Unterminated(t *testing.T) {
	_, err := ReplaceTagsBlock("tags = {\n  \"Owner\" = \"x\"\n", jane)
	assert.ErrorIs(t, err, ErrTagsBlockUnterminated)
}

func TestReplaceTagsBlock_SingleLineBlock(t *testing.T) {
	got, err := ReplaceTagsBlock("a = 1\ntags = {} # managed\nb = 2", jane)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "a = 1\ntags = {\n"))
	assert.True(t, strings.HasSuffix(got, "\n} # managed\nb = 2"))
}

func TestReplaceTagsBlock_BracesInsideValuesAndComments(t *testing.T) {
	content := "tags = {\n  \"Note\" = \"}\" # }\n  // }\n}\ntail = true\n"
	got, err := ReplaceTagsBlock(content, jane)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(got, "}\ntail = true\n"))
	assert.NotContains(t, got, "Note")
}

func TestReplaceTagsBlock_NestedBraces(t *testing.T) {
	content := "tags = {\n  extra = {\n    a = 1\n  }\n}\nafter = 1\n"
	got, err := ReplaceTagsBlock(content, jane)
	require.NoError(t, err)
	assert.NotContains(t, got, "extra")
	assert.True(t, strings.HasSuffix(got, "}\nafter = 1\n"))
}

func TestReplaceTagsBlock_PreservesIndentAndCRLF(t *testing.T) {
	content := "settings = {\r\n    tags = {\r\n    }\r\n}\r\n"
	got, err := ReplaceTagsBlock(content, jane)
	require.NoError(t, err)

	want := "settings = {\r\n" +
		"    tags = {\r\n" +
		"      \"Owner\"       = \"Jane Doe\"\r\n" +
		"      \"Email\"       = \"jane@acme.com\"\r\n" +
		"      \"Company\"     = \"Acme\"\r\n" +
		"      \"Designation\" = \"Engineer\"\r\n" +
		"    }\r\n" +
		"}\r\n"
	assert.Equal(t, want, got)
}

func TestReplaceTagsBlock_OnlyFirstBlock(t *testing.T) {
	content := "tags = {\n}\nother = {\n  tags = {\n    keep = 1\n  }\n}\n"
	got, err := ReplaceTagsBlock(content, jane)
	require.NoError(t, err)
	assert.Contains(t, got, "keep = 1")
}

func TestHCLQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Jane Doe", `"Jane Doe"`},
		{`Ann "The Boss" O'Neil`, `"Ann \"The Boss\" O'Neil"`},
		{`C:\path`, `"C:\\path"`},
		{"a\nb\tc", `"a\nb\tc"`},
		{"${var.x}", `"$${var.x}"`},
		{"100%{x}", `"100%%{x}"`},
		{"$5 and 10%", `"$5 and 10%"`},
		{"Zoë", `"Zoë"`},
		{"bell\a", `"bell\u0007"`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, hclQuote(tt.in))
		})
	}
}

func TestReplaceTagsBlock_EscapedValuesStayIdempotent(t *testing.T) {
	req := jane
	req.Company = `Acme "Intl" {EU} ${x}`

	first, err := ReplaceTagsBlock(sampleTFVars, req)
	require.NoError(t, err)
	second, err := ReplaceTagsBlock(first, req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestReplaceTagsBlock_BlockCommentsAndHeredocs(t *testing.T) {
	want, err := ReplaceTagsBlock("tags = {\n}\nafter = 1\n", jane)
	require.NoError(t, err)

	tests := []struct {
		name    string
		content string
	}{
		{"brace in block comment", "tags = {\n  /* legacy } */\n  \"Env\" = \"dev\"\n}\nafter = 1\n"},
		{"block comment spanning lines", "tags = {\n  /* old:\n  }\n  */ \"Env\" = \"dev\"\n}\nafter = 1\n"},
		{"brace in heredoc", "tags = {\n  \"Note\" = <<EOT\n}\nEOT\n}\nafter = 1\n"},
		{"indented heredoc", "tags = {\n  \"Note\" = <<-EOT\n    { not closed\n    }\n    EOT\n}\nafter = 1\n"},
		{"heredoc with CR", "tags = {\n  \"Note\" = <<EOT\r\n}\r\nEOT\r\n}\nafter = 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReplaceTagsBlock(tt.content, jane)
			require.NoError(t, err)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("ReplaceTagsBlock() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReplaceTagsBlock_UnclosedCommentOrHeredoc(t *testing.T) {
	for _, content := range []string{
		"tags = {\n  /* never closed }\n}\nafter = 1\n",
		"tags = {\n  \"Note\" = <<EOT\n}\nafter = 1\n",
	} {
		_, err := ReplaceTagsBlock(content, jane)
		assert.ErrorIs(t, err, ErrTagsBlockUnterminated)
	}
}
