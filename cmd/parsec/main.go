package main

import (
	"flag"
	"log"
	"os"

	"github.com/avrl/parsec"
)

func main() {
	var (
		grammarPath = flag.String("grammar", "", "Path to the grammar file")
		startRule   = flag.String("start", "", "Name of the rule to start parsing from (defaults to the first rule defined)")
		inputPath   = flag.String("input", "", "Path to the input file to parse; defaults to stdin")
		predictive  = flag.Bool("predictive", false, "Compile every choice in the grammar as a committed (non-backtracking) alternative")
		wsSensitive = flag.Bool("whitespace-sensitive", false, "Disable the implicit whitespace skip between adjacent factors")
	)
	flag.Parse()

	if *grammarPath == "" {
		log.Fatal("Grammar not informed")
	}

	grammarData, err := os.ReadFile(*grammarPath)
	if err != nil {
		log.Fatalf("Can't read grammar file: %s", err.Error())
	}

	ruleNames, err := scanRuleNames(string(grammarData))
	if err != nil {
		log.Fatalf("Can't scan rule names: %s", err.Error())
	}
	if len(ruleNames) == 0 {
		log.Fatal("Grammar has no rules")
	}

	refs := make(map[string]*parsec.Parser, len(ruleNames))
	var retained []*parsec.Parser
	for _, name := range ruleNames {
		ref := parsec.New(name)
		refs[name] = ref
		retained = append(retained, ref)
	}
	defer parsec.Cleanup(retained)

	cfg := parsec.NewConfig()
	cfg.SetBool("grammar.predictive", *predictive)
	cfg.SetBool("grammar.whitespace_sensitive", *wsSensitive)

	start, err := parsec.GrammarWithConfig(cfg, string(grammarData), refs)
	if err != nil {
		log.Fatalf("Can't compile grammar: %s", err.Error())
	}
	if *startRule != "" {
		ref, ok := refs[*startRule]
		if !ok {
			log.Fatalf("No such rule: %s", *startRule)
		}
		start = ref
	}

	var val any
	var perr error
	if *inputPath == "" {
		val, perr = parsec.ParseStreamWithConfig("<stdin>", os.Stdin, start, cfg)
	} else {
		inputData, err := os.ReadFile(*inputPath)
		if err != nil {
			log.Fatalf("Can't read input: %s", err.Error())
		}
		val, perr = parsec.Parse(*inputPath, inputData, start)
	}
	if perr != nil {
		log.Fatalf("%s", perr.Error())
	}

	if node, ok := val.(*parsec.Node); ok {
		log.Printf("AST:\n%s", node.Dump())
	} else {
		log.Printf("value: %#v\n", val)
	}
}

// scanRuleNames extracts every "name :" or "name \"label\" :" rule
// head from src so refs can be pre-declared before compilation, the
// way a hand-written caller pre-declares its own recursive rules.
func scanRuleNames(src string) ([]string, error) {
	var names []string
	i := 0
	n := len(src)
	for i < n {
		for i < n && isSpace(src[i]) {
			i++
		}
		if i >= n {
			break
		}
		if !isIdentStart(src[i]) {
			// Skip to the next statement terminator rather than
			// mis-parsing a literal or comment as a rule head.
			for i < n && src[i] != ';' {
				i++
			}
			if i < n {
				i++
			}
			continue
		}
		start := i
		for i < n && isIdentChar(src[i]) {
			i++
		}
		names = append(names, src[start:i])
		for i < n && src[i] != ';' {
			i++
		}
		if i < n {
			i++
		}
	}
	return names, nil
}

func isSpace(b byte) bool      { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }
func isIdentStart(b byte) bool { return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }
func isIdentChar(b byte) bool  { return isIdentStart(b) || (b >= '0' && b <= '9') }
