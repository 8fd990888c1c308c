// File: doc.go
// Title: ArcaneQuest Front-End Package Documentation
// Description: Package documentation for the ArcaneQuest language
//              front-end: scanner, parser, semantic analyzer and the
//              pipeline engine tying them together.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial package documentation

/*
Package arcane turns ArcaneQuest source text into a validated, type-annotated
syntax tree.

Key Features:
  - Indentation-sensitive scanner emitting INDENT and DEDENT tokens
  - Recursive-descent parser with panic-mode recovery at statement boundaries
  - Two interchangeable expression parsers (cascade and precedence climbing)
  - Scope resolution and best-effort static type inference
  - Quest return types re-inferred per call site from argument types

# Language Overview

ArcaneQuest is a small whitespace-significant scripting language. Blocks are
opened by a colon and an indented body:

	summon math
	--> comments start with an arrow
	hp = 100
	quest heal(amount):
	    reward amount * 2
	spot (hp > 50):
	    attack("strong")
	counter (hp > 10):
	    attack("hurt")
	dodge:
	    attack(heal(hp))

## Keywords

	summon          import
	quest / reward  function definition / return
	attack / scout  output / input
	spot / counter / dodge       if / elif / else
	replay / farm   while / for
	guild           class definition
	embark / gameOver / savePoint  try / except / finally
	encounter / path             match / case
	skipEncounter / escapeDungeon  continue / break

## Types

	potion   integer
	elixir   floating point
	scroll   text
	fate     boolean

Datatype names double as casts: potion("42").

# Diagnostics

No error stops the pipeline. Every stage appends to one ordered list of
diag.Diagnostic values tagged with their origin (lexical, syntax, semantic or
internal). An empty list means the program is valid.

# Usage

	tokens := arcane.Tokenize(source)
	prog, diags := arcane.Parse(tokens)
	for _, d := range diags {
	    fmt.Println(d)
	}

Configured runs go through an Engine:

	opts := arcane.DefaultOptions()
	opts.Semantic.Division = semantic.DivisionPromote
	result := arcane.NewEngine(opts).Analyze("quest.aq", source)
	if err := result.Err(); err != nil {
	    return err
	}
*/
package arcane
