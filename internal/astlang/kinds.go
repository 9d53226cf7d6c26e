package astlang

import "sync"

// KindSet resolves a tree-sitter node's concrete Type() string to one of a
// handful of abstract syntactic categories the rule engine cares about.
// Built once per language and cached process-wide (spec: "removes O(n)
// string comparisons from the hot path").
type KindSet struct {
	functions   map[string]struct{}
	methods     map[string]struct{}
	paramLists  map[string]struct{}
	loopHeaders map[string]struct{}
	conditionals map[string]struct{}
	returns     map[string]struct{}
	throws      map[string]struct{}
	terminators map[string]struct{} // return/raise/throw/break/continue — for unreachable-code detection
	tryBlocks   map[string]struct{}
	catchBlocks map[string]struct{}
	classLike   map[string]struct{} // class/struct/trait — entity kind for diff mapping
	entityNameField string          // tree-sitter field name carrying the identifier, when uniform
}

func newKindSet() *KindSet {
	return &KindSet{
		functions:    map[string]struct{}{},
		methods:      map[string]struct{}{},
		paramLists:   map[string]struct{}{},
		loopHeaders:  map[string]struct{}{},
		conditionals: map[string]struct{}{},
		returns:      map[string]struct{}{},
		throws:       map[string]struct{}{},
		terminators:  map[string]struct{}{},
		tryBlocks:    map[string]struct{}{},
		catchBlocks:  map[string]struct{}{},
		classLike:    map[string]struct{}{},
	}
}

func set(m map[string]struct{}, kinds ...string) {
	for _, k := range kinds {
		m[k] = struct{}{}
	}
}

func has(m map[string]struct{}, kind string) bool {
	_, ok := m[kind]
	return ok
}

func (k *KindSet) IsFunction(kind string) bool   { return has(k.functions, kind) }
func (k *KindSet) IsMethod(kind string) bool     { return has(k.methods, kind) }
func (k *KindSet) IsFunctionLike(kind string) bool {
	return k.IsFunction(kind) || k.IsMethod(kind)
}
func (k *KindSet) IsParamList(kind string) bool  { return has(k.paramLists, kind) }
func (k *KindSet) IsLoopHeader(kind string) bool { return has(k.loopHeaders, kind) }
func (k *KindSet) IsConditional(kind string) bool { return has(k.conditionals, kind) }
func (k *KindSet) IsReturn(kind string) bool     { return has(k.returns, kind) }
func (k *KindSet) IsThrow(kind string) bool      { return has(k.throws, kind) }
func (k *KindSet) IsTerminator(kind string) bool { return has(k.terminators, kind) }
func (k *KindSet) IsTry(kind string) bool        { return has(k.tryBlocks, kind) }
func (k *KindSet) IsCatch(kind string) bool      { return has(k.catchBlocks, kind) }
func (k *KindSet) IsClassLike(kind string) bool  { return has(k.classLike, kind) }

var (
	kindCacheOnce sync.Once
	kindCache     map[Language]*KindSet
)

func initKindCache() {
	kindCache = map[Language]*KindSet{
		Go:         buildGoKinds(),
		Python:     buildPythonKinds(),
		JavaScript: buildJSKinds(),
		TypeScript: buildJSKinds(), // typescript grammar is a superset of javascript's node names
		TSX:        buildJSKinds(),
		Java:       buildJavaKinds(),
		CSharp:     buildCSharpKinds(),
		Rust:       buildRustKinds(),
		C:          buildCKinds(),
		CPP:        buildCPPKinds(),
		PHP:        buildPHPKinds(),
		Ruby:       buildRubyKinds(),
	}
}

// Kinds returns the process-wide KindSet for lang, building it lazily on
// first use. Unknown returns nil: callers must check before dereferencing.
func Kinds(lang Language) *KindSet {
	kindCacheOnce.Do(initKindCache)
	return kindCache[lang]
}

func buildGoKinds() *KindSet {
	k := newKindSet()
	set(k.functions, "function_declaration", "func_literal")
	set(k.methods, "method_declaration")
	set(k.paramLists, "parameter_list")
	set(k.loopHeaders, "for_statement", "range_clause")
	set(k.conditionals, "if_statement", "expression_switch_statement", "type_switch_statement", "select_statement")
	set(k.returns, "return_statement")
	// Go has no throw node; panic() is a call_expression, checked by name elsewhere.
	set(k.terminators, "return_statement", "break_statement", "continue_statement", "goto_statement", "fallthrough_statement")
	set(k.tryBlocks) // no try/except in Go
	set(k.catchBlocks)
	set(k.classLike, "type_declaration", "struct_type", "interface_type")
	return k
}

func buildPythonKinds() *KindSet {
	k := newKindSet()
	set(k.functions, "function_definition")
	set(k.paramLists, "parameters")
	set(k.loopHeaders, "for_statement", "while_statement")
	set(k.conditionals, "if_statement", "match_statement")
	set(k.returns, "return_statement")
	set(k.throws, "raise_statement")
	set(k.terminators, "return_statement", "raise_statement", "break_statement", "continue_statement")
	set(k.tryBlocks, "try_statement")
	set(k.catchBlocks, "except_clause")
	set(k.classLike, "class_definition")
	return k
}

func buildJSKinds() *KindSet {
	k := newKindSet()
	set(k.functions, "function_declaration", "function_expression", "arrow_function", "generator_function_declaration", "generator_function")
	set(k.methods, "method_definition")
	set(k.paramLists, "formal_parameters")
	set(k.loopHeaders, "for_statement", "for_in_statement", "while_statement", "do_statement")
	set(k.conditionals, "if_statement", "switch_statement")
	set(k.returns, "return_statement")
	set(k.throws, "throw_statement")
	set(k.terminators, "return_statement", "throw_statement", "break_statement", "continue_statement")
	set(k.tryBlocks, "try_statement")
	set(k.catchBlocks, "catch_clause")
	set(k.classLike, "class_declaration", "class")
	return k
}

func buildJavaKinds() *KindSet {
	k := newKindSet()
	set(k.functions, "method_declaration", "constructor_declaration", "lambda_expression")
	set(k.methods, "method_declaration")
	set(k.paramLists, "formal_parameters")
	set(k.loopHeaders, "for_statement", "enhanced_for_statement", "while_statement", "do_statement")
	set(k.conditionals, "if_statement", "switch_expression", "switch_statement")
	set(k.returns, "return_statement")
	set(k.throws, "throw_statement")
	set(k.terminators, "return_statement", "throw_statement", "break_statement", "continue_statement")
	set(k.tryBlocks, "try_statement", "try_with_resources_statement")
	set(k.catchBlocks, "catch_clause")
	set(k.classLike, "class_declaration", "interface_declaration", "enum_declaration", "record_declaration")
	return k
}

func buildCSharpKinds() *KindSet {
	k := newKindSet()
	set(k.functions, "method_declaration", "local_function_statement", "lambda_expression", "anonymous_method_expression")
	set(k.methods, "method_declaration")
	set(k.paramLists, "parameter_list")
	set(k.loopHeaders, "for_statement", "foreach_statement", "while_statement", "do_statement")
	set(k.conditionals, "if_statement", "switch_statement", "switch_expression")
	set(k.returns, "return_statement")
	set(k.throws, "throw_statement", "throw_expression")
	set(k.terminators, "return_statement", "throw_statement", "break_statement", "continue_statement")
	set(k.tryBlocks, "try_statement")
	set(k.catchBlocks, "catch_clause")
	set(k.classLike, "class_declaration", "interface_declaration", "struct_declaration", "record_declaration")
	return k
}

func buildRustKinds() *KindSet {
	k := newKindSet()
	set(k.functions, "function_item", "closure_expression")
	set(k.paramLists, "parameters", "closure_parameters")
	set(k.loopHeaders, "for_expression", "while_expression", "loop_expression")
	set(k.conditionals, "if_expression", "if_let_expression", "match_expression")
	set(k.returns, "return_expression")
	// Rust has no exceptions; panic!/unwrap/expect are macro_invocation/call
	// nodes, matched by name in the rule engine, not by kind here.
	set(k.terminators, "return_expression", "break_expression", "continue_expression")
	set(k.classLike, "struct_item", "enum_item", "trait_item", "impl_item")
	return k
}

func buildCKinds() *KindSet {
	k := newKindSet()
	set(k.functions, "function_definition")
	set(k.paramLists, "parameter_list")
	set(k.loopHeaders, "for_statement", "while_statement", "do_statement")
	set(k.conditionals, "if_statement", "switch_statement")
	set(k.returns, "return_statement")
	set(k.terminators, "return_statement", "break_statement", "continue_statement", "goto_statement")
	set(k.classLike, "struct_specifier", "union_specifier", "enum_specifier")
	return k
}

func buildCPPKinds() *KindSet {
	k := newKindSet()
	set(k.functions, "function_definition", "lambda_expression")
	set(k.paramLists, "parameter_list")
	set(k.loopHeaders, "for_statement", "for_range_loop", "while_statement", "do_statement")
	set(k.conditionals, "if_statement", "switch_statement")
	set(k.returns, "return_statement")
	set(k.throws, "throw_statement")
	set(k.terminators, "return_statement", "throw_statement", "break_statement", "continue_statement")
	set(k.tryBlocks, "try_statement")
	set(k.catchBlocks, "catch_clause")
	set(k.classLike, "class_specifier", "struct_specifier")
	return k
}

func buildPHPKinds() *KindSet {
	k := newKindSet()
	set(k.functions, "function_definition", "anonymous_function_creation_expression", "arrow_function")
	set(k.methods, "method_declaration")
	set(k.paramLists, "formal_parameters")
	set(k.loopHeaders, "for_statement", "foreach_statement", "while_statement", "do_statement")
	set(k.conditionals, "if_statement", "switch_statement")
	set(k.returns, "return_statement")
	set(k.throws, "throw_expression", "throw_statement")
	set(k.terminators, "return_statement", "throw_expression", "break_statement", "continue_statement")
	set(k.tryBlocks, "try_statement")
	set(k.catchBlocks, "catch_clause")
	set(k.classLike, "class_declaration", "interface_declaration", "trait_declaration")
	return k
}

func buildRubyKinds() *KindSet {
	k := newKindSet()
	set(k.functions, "method", "singleton_method", "lambda", "block", "do_block")
	set(k.methods, "method", "singleton_method")
	set(k.paramLists, "method_parameters", "lambda_parameters", "block_parameters")
	set(k.loopHeaders, "for", "while", "until")
	set(k.conditionals, "if", "unless", "case")
	set(k.returns, "return")
	set(k.terminators, "return", "break", "next", "redo")
	set(k.tryBlocks, "begin")
	set(k.catchBlocks, "rescue")
	set(k.classLike, "class", "module")
	return k
}
