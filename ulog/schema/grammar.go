package schema

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

/*
This is a grammar for ULog format definitions, which take the form

	message_name:type0 field0;type1 field1;...

Fixed-size arrays are written with a bracketed length after the type
("float32[4] q") or after the field name ("float32 q[4]"); both spellings
appear in the wild, so both are accepted. The same "type name" syntax is used
for the typed keys of info and parameter frames.

The participle AST does not leave this package; the registry transforms it
into the schema model.
*/

// nolint:gochecknoglobals
var (
	formatLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Integer", Pattern: `[0-9]+`},
		{Name: "Word", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
		{Name: "Whitespace", Pattern: `[ \t]+`},
		{Name: "LBracket", Pattern: `\[`},
		{Name: "RBracket", Pattern: `\]`},
		{Name: "Colon", Pattern: `:`},
		{Name: "Semicolon", Pattern: `;`},
	})

	formatDefinitionParser = participle.MustBuild[formatDefinition](
		participle.Lexer(formatLexer),
		participle.Elide("Whitespace"),
		participle.UseLookahead(2),
	)

	fieldSpecParser = participle.MustBuild[fieldSpec](
		participle.Lexer(formatLexer),
		participle.Elide("Whitespace"),
		participle.UseLookahead(2),
	)
)

type formatDefinition struct {
	Name   string      `parser:"@Word Colon"`
	Fields []fieldSpec `parser:"( @@ ( Semicolon @@ )* Semicolon? )?"`
}

type fieldSpec struct {
	Type  typeSpec `parser:"@@"`
	Name  string   `parser:"@Word"`
	Count *int     `parser:"( LBracket @Integer RBracket )?"`
}

type typeSpec struct {
	Name  string `parser:"@Word"`
	Count *int   `parser:"( LBracket @Integer RBracket )?"`
}

// arrayLength normalizes the two array spellings. It returns 0 for scalars
// and -1 when the length is declared in both positions or is not positive.
func (f fieldSpec) arrayLength() int {
	if f.Type.Count != nil && f.Count != nil {
		return -1
	}
	count := f.Type.Count
	if count == nil {
		count = f.Count
	}
	if count == nil {
		return 0
	}
	if *count < 1 {
		return -1
	}
	return *count
}
