package dts

// Parse parses source text into its top-level statement structure. The
// parser is deliberately lenient: it never fails, and anything it does not
// understand becomes an opaque statement. Syntax validation belongs to the
// compiler collaborator, not here.
func Parse(path, text string) *SourceFile {
	return &SourceFile{
		Path:       path,
		Text:       text,
		Statements: parseStatements(text, 0, len(text), true),
	}
}

// parseStatements parses the statements in src[i:end]. topLevel controls
// whether `declare` modifiers become deletable keyword nodes; nested bodies
// cannot carry them.
func parseStatements(src string, i, end int, topLevel bool) []*Node {
	var stmts []*Node
	for {
		i = skipTrivia(src, i)
		if i >= end {
			return stmts
		}
		n, next := parseStatement(src, i, end, topLevel)
		stmts = append(stmts, n)
		if next <= i { // guarantee progress on stray bytes
			next = i + 1
			n.End = next
		}
		i = next
	}
}

func parseStatement(src string, i, end int, topLevel bool) (*Node, int) {
	n := &Node{Kind: KindOpaque, Pos: i}
	j := i
	word, after := wordAt(src, j)

	switch word {
	case "export":
		n.Exported = true
		j = skipTrivia(src, after)
		if j < end && src[j] == '=' {
			n.Kind = KindExportAssign
			n.End = scanSimpleEnd(src, j, end)
			return n, n.End
		}
		if j < end && (src[j] == '{' || src[j] == '*') {
			n.Kind = KindExport
			return parseFromClause(src, n, j, end)
		}
		word, after = wordAt(src, j)
		switch word {
		case "default":
			n.Kind = KindExportAssign
			n.End = scanSimpleEnd(src, after, end)
			return n, n.End
		case "type":
			if k := skipTrivia(src, after); k < end && (src[k] == '{' || src[k] == '*') {
				n.Kind = KindExport
				return parseFromClause(src, n, k, end)
			}
		case "import":
			return parseImportTail(src, n, skipTrivia(src, after), end)
		}
	case "import":
		return parseImportTail(src, n, skipTrivia(src, after), end)
	}

	if word == "declare" {
		if topLevel {
			n.add(&Node{Kind: KindDeclareKeyword, Pos: j, End: skipInlineSpace(src, after)})
		}
		j = skipTrivia(src, after)
		word, after = wordAt(src, j)
	}

	switch word {
	case "namespace", "module":
		k := skipTrivia(src, after)
		// module "foo" { ... } is an ambient module declaration; it names
		// its own module id, so its body stays opaque.
		if word == "module" && k < end && (src[k] == '"' || src[k] == '\'') {
			n.End = scanBodyEnd(src, k, end)
			return n, n.End
		}
		n.Kind = KindNamespace
		for k < end { // skip the possibly dotted name
			_, idEnd := wordAt(src, k)
			k = skipTrivia(src, idEnd)
			if k < end && src[k] == '.' {
				k = skipTrivia(src, k+1)
				continue
			}
			break
		}
		if k < end && src[k] == '{' {
			bodyEnd := skipBraces(src, k)
			for _, c := range parseStatements(src, k+1, bodyEnd-1, false) {
				n.add(c)
			}
			n.End = bodyEnd
			return n, n.End
		}
		n.End = scanSimpleEnd(src, k, end)
		return n, n.End
	case "interface", "class", "enum", "global", "abstract":
		n.End = scanBodyEnd(src, after, end)
		return n, n.End
	case "const":
		k := skipTrivia(src, after)
		if w, _ := wordAt(src, k); w == "enum" {
			n.End = scanBodyEnd(src, k, end)
			return n, n.End
		}
		n.End = scanSimpleEnd(src, k, end)
		return n, n.End
	default:
		n.End = scanSimpleEnd(src, after, end)
		return n, n.End
	}
}

// parseImportTail parses the remainder of an import statement; j points at
// the first token after the `import` keyword.
func parseImportTail(src string, n *Node, j, end int) (*Node, int) {
	n.Kind = KindImport

	// side-effect import: import "m";
	if v, strEnd, ok := scanStringLiteral(src, j); ok {
		n.add(&Node{Kind: KindString, Pos: j, End: strEnd, Value: v})
		n.End = statementEnd(src, strEnd, end)
		return n, n.End
	}

	word, after := wordAt(src, j)
	if word == "type" {
		// type-only import; the modifier plays no structural role unless
		// `type` is itself the binding name of an import-equals form.
		if k := skipTrivia(src, after); k < end && src[k] != '=' {
			j = k
			word, after = wordAt(src, j)
		}
	}
	if word != "" {
		if k := skipTrivia(src, after); k < end && src[k] == '=' {
			n.Kind = KindImportEquals
			k = skipTrivia(src, k+1)
			if w, wEnd := wordAt(src, k); w == "require" {
				if p := skipTrivia(src, wEnd); p < end && src[p] == '(' {
					q := skipTrivia(src, p+1)
					if v, strEnd, ok := scanStringLiteral(src, q); ok {
						if r := skipTrivia(src, strEnd); r < end && src[r] == ')' {
							n.add(&Node{Kind: KindRequire, Pos: k, End: r + 1, Value: v})
							n.End = statementEnd(src, r+1, end)
							return n, n.End
						}
					}
				}
			}
			// entity-name alias: import x = A.B;
			n.End = scanSimpleEnd(src, k, end)
			return n, n.End
		}
	}
	return parseFromClause(src, n, j, end)
}

// parseFromClause scans an import/export clause for its `from "m"` module
// specifier and the statement end.
func parseFromClause(src string, n *Node, j, end int) (*Node, int) {
	depth := 0
	i := j
	for i < end {
		switch c := src[i]; {
		case c == '\'' || c == '"' || c == '`':
			i = skipString(src, i)
		case c == '/':
			if k := skipTrivia(src, i); k > i {
				i = k
			} else {
				i++
			}
		case c == '{' || c == '(' || c == '[':
			depth++
			i++
		case c == '}' || c == ')' || c == ']':
			depth--
			i++
		case c == ';':
			if depth <= 0 { // no specifier, e.g. `export {x};`
				n.End = i + 1
				return n, n.End
			}
			i++
		case isIdentByte(c):
			w, wEnd := wordAt(src, i)
			if w == "from" && depth == 0 {
				k := skipTrivia(src, wEnd)
				if v, strEnd, ok := scanStringLiteral(src, k); ok {
					n.add(&Node{Kind: KindString, Pos: k, End: strEnd, Value: v})
					n.End = statementEnd(src, strEnd, end)
					return n, n.End
				}
			}
			i = wEnd
		default:
			i++
		}
	}
	n.End = end
	return n, n.End
}

// statementEnd consumes an optional semicolon directly after i. Statements
// whose structure is already complete must not swallow a following line.
func statementEnd(src string, i, end int) int {
	if j := skipInlineSpace(src, i); j < end && src[j] == ';' {
		return j + 1
	}
	return i
}

// scanSimpleEnd finds the end of a statement terminated by a semicolon at
// bracket depth zero (type aliases, variables, functions, expressions).
func scanSimpleEnd(src string, i, end int) int {
	depth := 0
	for i < end {
		switch src[i] {
		case '\'', '"', '`':
			i = skipString(src, i)
		case '/':
			if j := skipTrivia(src, i); j > i {
				i = j
			} else {
				i++
			}
		case '(', '[', '{':
			depth++
			i++
		case ')', ']', '}':
			depth--
			i++
		case ';':
			if depth <= 0 {
				return i + 1
			}
			i++
		default:
			i++
		}
	}
	return end
}

// scanBodyEnd finds the end of a statement terminated by a brace body
// (interface, class, enum, namespace, ambient module, global).
func scanBodyEnd(src string, i, end int) int {
	for i < end {
		switch src[i] {
		case '\'', '"', '`':
			i = skipString(src, i)
		case '/':
			if j := skipTrivia(src, i); j > i {
				i = j
			} else {
				i++
			}
		case '{':
			i = skipBraces(src, i)
			if j := skipTrivia(src, i); j < end && src[j] == ';' {
				return j + 1
			}
			return i
		case ';':
			return i + 1
		default:
			i++
		}
	}
	return end
}
