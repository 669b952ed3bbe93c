// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bind

import (
	"errors"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yeetrun/snatch/pkg/argdef"
	"github.com/yeetrun/snatch/pkg/token"
)

func mustBind(t *testing.T, argv []string, set *argdef.Set) *BoundValues {
	t.Helper()
	bv, err := Bind(token.Split(argv), set)
	if err != nil {
		t.Fatalf("Bind(%v) error: %v", argv, err)
	}
	return bv
}

func TestBindFlagsAndOptions(t *testing.T) {
	set := argdef.NewSet(
		argdef.NewFlag("verbose", token.LongName("verbose"), token.ShortName('v')),
		argdef.NewOption("output", token.LongName("output"), token.ShortName('o')),
	)

	tests := []struct {
		name string
		argv []string
	}{
		{"long with equals", []string{"--verbose", "--output=out.txt"}},
		{"long with space", []string{"--verbose", "--output", "out.txt"}},
		{"short forms", []string{"-v", "-o", "out.txt"}},
		{"short with equals", []string{"-v", "-o=out.txt"}},
		{"order independent", []string{"--output", "out.txt", "-v"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bv := mustBind(t, tt.argv, set)
			if got, _ := bv.Last("verbose"); got != "true" {
				t.Errorf("verbose = %q, want %q", got, "true")
			}
			if got, _ := bv.Last("output"); got != "out.txt" {
				t.Errorf("output = %q, want %q", got, "out.txt")
			}
		})
	}
}

func TestBindClusterEqualsSeparateShorts(t *testing.T) {
	set := argdef.NewSet(
		argdef.NewFlag("a", token.ShortName('a')),
		argdef.NewFlag("b", token.ShortName('b')),
		argdef.NewFlag("c", token.ShortName('c')),
	)

	clustered := mustBind(t, []string{"-abc"}, set)
	separate := mustBind(t, []string{"-a", "-b", "-c"}, set)

	for _, key := range []string{"a", "b", "c"} {
		cv, _ := clustered.Last(key)
		sv, _ := separate.Last(key)
		if cv != sv || cv != "true" {
			t.Errorf("key %q: clustered %q, separate %q, want both %q", key, cv, sv, "true")
		}
	}
}

func TestBindClusterAsSingleDashLongName(t *testing.T) {
	set := argdef.NewSet(
		argdef.NewOption("output", token.SingleDashName("out")),
	)
	bv := mustBind(t, []string{"-out", "file.txt"}, set)
	if got, _ := bv.Last("output"); got != "file.txt" {
		t.Errorf("output = %q, want %q", got, "file.txt")
	}
}

func TestBindTerminatorStopsOptionMatching(t *testing.T) {
	set := argdef.NewSet(
		argdef.NewFlag("foo", token.LongName("foo")),
		argdef.NewArrayPositional("rest"),
	)
	bv := mustBind(t, []string{"--foo", "--", "--bar"}, set)
	if got, _ := bv.Last("foo"); got != "true" {
		t.Errorf("foo = %q, want %q", got, "true")
	}
	if got := bv.All("rest"); !reflect.DeepEqual(got, []string{"--bar"}) {
		t.Errorf("rest = %v, want [--bar]", got)
	}
}

func TestBindNegativeNumberPositional(t *testing.T) {
	set := argdef.NewSet(argdef.NewPositional("count"))
	bv := mustBind(t, []string{"-5"}, set)
	if got, _ := bv.Last("count"); got != "-5" {
		t.Errorf("count = %q, want %q", got, "-5")
	}
}

func TestBindNegativeNumberPrefersDeclaredShortOption(t *testing.T) {
	set := argdef.NewSet(
		argdef.NewFlag("five", token.ShortName('5')),
		argdef.NewPositional("count").WithOptional(),
	)
	bv := mustBind(t, []string{"-5"}, set)
	if got, _ := bv.Last("five"); got != "true" {
		t.Errorf("five = %q, want %q (option-name reading has priority)", got, "true")
	}
	if _, ok := bv.Lookup("count"); ok {
		t.Error("count bound; -5 should have been claimed as a flag")
	}
}

func TestBindNegativeNumberAsOptionValue(t *testing.T) {
	set := argdef.NewSet(argdef.NewOption("offset", token.LongName("offset")))
	bv := mustBind(t, []string{"--offset", "-123"}, set)
	if got, _ := bv.Last("offset"); got != "-123" {
		t.Errorf("offset = %q, want %q", got, "-123")
	}
}

func TestBindMultiDigitNegativePositional(t *testing.T) {
	set := argdef.NewSet(argdef.NewPositional("count"))
	bv := mustBind(t, []string{"-123"}, set)
	if got, _ := bv.Last("count"); got != "-123" {
		t.Errorf("count = %q, want %q", got, "-123")
	}
}

func TestBindUnknownOptionSuggestsClosestName(t *testing.T) {
	set := argdef.NewSet(argdef.NewOption("name", token.LongName("name")))
	_, err := Bind(token.Split([]string{"--nme", "x"}), set)

	var unknown *UnknownOptionError
	if !errors.As(err, &unknown) {
		t.Fatalf("error = %v, want UnknownOptionError", err)
	}
	want := "Unknown option '--nme'. Did you mean '--name'?"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestBindUnknownOptionNoSuggestionWhenFar(t *testing.T) {
	set := argdef.NewSet(argdef.NewOption("name", token.LongName("name")))
	_, err := Bind(token.Split([]string{"--completely-different"}), set)

	var unknown *UnknownOptionError
	if !errors.As(err, &unknown) {
		t.Fatalf("error = %v, want UnknownOptionError", err)
	}
	want := "Unknown option '--completely-different'"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestBindUnknownClusterReportedAsTyped(t *testing.T) {
	set := argdef.NewSet(argdef.NewFlag("verbose", token.LongName("verbose")))
	_, err := Bind(token.Split([]string{"-xyz"}), set)

	var unknown *UnknownOptionError
	if !errors.As(err, &unknown) {
		t.Fatalf("error = %v, want UnknownOptionError", err)
	}
	if unknown.Name != "-xyz" {
		t.Errorf("Name = %q, want %q", unknown.Name, "-xyz")
	}
}

func TestBindPartiallyConsumedClusterReportsLeftoverLetter(t *testing.T) {
	set := argdef.NewSet(
		argdef.NewFlag("a", token.ShortName('a')),
		argdef.NewFlag("b", token.ShortName('b')),
	)
	_, err := Bind(token.Split([]string{"-abz"}), set)

	var unknown *UnknownOptionError
	if !errors.As(err, &unknown) {
		t.Fatalf("error = %v, want UnknownOptionError", err)
	}
	if unknown.Name != "-z" {
		t.Errorf("Name = %q, want %q", unknown.Name, "-z")
	}
}

func TestBindPartiallyConsumedDigitClusterReportsLeftoverDigit(t *testing.T) {
	// Once one digit matches as a declared short flag, the cluster is
	// per-letter; the remaining digit is an unknown option, not part of
	// a negative number, and never silently dropped.
	set := argdef.NewSet(argdef.NewFlag("one", token.ShortName('1')))
	_, err := Bind(token.Split([]string{"-13"}), set)

	var unknown *UnknownOptionError
	if !errors.As(err, &unknown) {
		t.Fatalf("error = %v, want UnknownOptionError", err)
	}
	if unknown.Name != "-3" {
		t.Errorf("Name = %q, want %q", unknown.Name, "-3")
	}
}

func TestBindMissingValue(t *testing.T) {
	set := argdef.NewSet(argdef.NewOption("format", token.LongName("format")))
	_, err := Bind(token.Split([]string{"--format"}), set)

	var missing *MissingValueError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v, want MissingValueError", err)
	}
	want := "Missing value for '--format <format>'"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestBindMissingValueWhenNextIsOption(t *testing.T) {
	set := argdef.NewSet(
		argdef.NewOption("format", token.LongName("format")),
		argdef.NewFlag("verbose", token.LongName("verbose")),
	)
	_, err := Bind(token.Split([]string{"--format", "--verbose"}), set)
	var missing *MissingValueError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v, want MissingValueError", err)
	}
}

func TestBindMissingRequiredPositional(t *testing.T) {
	set := argdef.NewSet(argdef.NewPositional("file"))
	_, err := Bind(token.Split(nil), set)

	var missing *MissingArgumentError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v, want MissingArgumentError", err)
	}
	want := "Missing expected argument '<file>'"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestBindMissingRequiredOption(t *testing.T) {
	set := argdef.NewSet(
		argdef.NewOption("format", token.LongName("format")).WithRequired(),
	)
	_, err := Bind(token.Split(nil), set)
	var missing *MissingArgumentError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v, want MissingArgumentError", err)
	}
	want := "Missing expected argument '--format <format>'"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestBindExclusiveFlagsNameBothOrigins(t *testing.T) {
	set := argdef.NewSet(
		argdef.NewFlag("list", token.LongName("list")).WithExclusiveGroup("mode"),
		argdef.NewFlag("create", token.ShortName('c')).WithExclusiveGroup("mode"),
	)
	_, err := Bind(token.Split([]string{"--list", "-c"}), set)

	var dup *DuplicateFlagError
	if !errors.As(err, &dup) {
		t.Fatalf("error = %v, want DuplicateFlagError", err)
	}
	if dup.Name != "-c" {
		t.Errorf("Name = %q, want %q", dup.Name, "-c")
	}
	if dup.PrevName != "--list" {
		t.Errorf("PrevName = %q, want %q", dup.PrevName, "--list")
	}
	want := "Value to be set with '-c' had already been set with '--list'"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestBindInversionConflict(t *testing.T) {
	set := argdef.NewSet(
		argdef.NewFlag("color", token.LongName("color")).WithInversion(token.LongName("no-color")),
	)
	_, err := Bind(token.Split([]string{"--color", "--no-color"}), set)
	var dup *DuplicateFlagError
	if !errors.As(err, &dup) {
		t.Fatalf("error = %v, want DuplicateFlagError", err)
	}
	if dup.Name != "--no-color" || dup.PrevName != "--color" {
		t.Errorf("names = (%q, %q), want (--no-color, --color)", dup.Name, dup.PrevName)
	}
}

func TestBindRepeatedFlagSameValueIsAllowed(t *testing.T) {
	set := argdef.NewSet(argdef.NewFlag("verbose", token.LongName("verbose"), token.ShortName('v')))
	bv := mustBind(t, []string{"--verbose", "-v"}, set)
	b, _ := bv.Lookup("verbose")
	if len(b.Values) != 2 {
		t.Fatalf("len(Values) = %d, want 2 origins recorded", len(b.Values))
	}
}

func TestBindDuplicateScalarOption(t *testing.T) {
	set := argdef.NewSet(argdef.NewOption("output", token.LongName("output"), token.ShortName('o')))
	_, err := Bind(token.Split([]string{"--output", "a", "-o", "b"}), set)

	var dup *DuplicateFlagError
	if !errors.As(err, &dup) {
		t.Fatalf("error = %v, want DuplicateFlagError", err)
	}
	if dup.Name != "-o" || dup.PrevName != "--output" {
		t.Errorf("names = (%q, %q), want (-o, --output)", dup.Name, dup.PrevName)
	}
}

func TestBindArrayOptionAccumulatesInTokenOrder(t *testing.T) {
	set := argdef.NewSet(argdef.NewArrayOption("tag", token.LongName("tag"), token.ShortName('t')))
	bv := mustBind(t, []string{"--tag", "a", "-t", "b", "--tag=c"}, set)
	want := []string{"a", "b", "c"}
	if got := bv.All("tag"); !reflect.DeepEqual(got, want) {
		t.Errorf("tag = %v, want %v", got, want)
	}
}

func TestBindGreedyArrayOptionConsumesUpToNextOption(t *testing.T) {
	set := argdef.NewSet(
		argdef.NewArrayOption("input", token.LongName("input")).WithGreedy(),
		argdef.NewFlag("verbose", token.LongName("verbose")),
	)
	bv := mustBind(t, []string{"--input", "a", "b", "c", "--verbose"}, set)
	want := []string{"a", "b", "c"}
	if got := bv.All("input"); !reflect.DeepEqual(got, want) {
		t.Errorf("input = %v, want %v", got, want)
	}
	if got, _ := bv.Last("verbose"); got != "true" {
		t.Errorf("verbose = %q, want %q", got, "true")
	}
}

func TestBindPositionalsInDeclarationOrder(t *testing.T) {
	set := argdef.NewSet(
		argdef.NewFlag("verbose", token.LongName("verbose")),
		argdef.NewPositional("src"),
		argdef.NewPositional("dst"),
	)
	bv := mustBind(t, []string{"a.txt", "--verbose", "b.txt"}, set)
	if got, _ := bv.Last("src"); got != "a.txt" {
		t.Errorf("src = %q, want %q", got, "a.txt")
	}
	if got, _ := bv.Last("dst"); got != "b.txt" {
		t.Errorf("dst = %q, want %q", got, "b.txt")
	}
}

func TestBindLastPositionalAbsorbsRemainder(t *testing.T) {
	set := argdef.NewSet(
		argdef.NewPositional("cmd"),
		argdef.NewArrayPositional("args"),
	)
	bv := mustBind(t, []string{"run", "x", "y", "z"}, set)
	if got, _ := bv.Last("cmd"); got != "run" {
		t.Errorf("cmd = %q, want %q", got, "run")
	}
	if got := bv.All("args"); !reflect.DeepEqual(got, []string{"x", "y", "z"}) {
		t.Errorf("args = %v, want [x y z]", got)
	}
}

func TestBindUnexpectedValuesAggregated(t *testing.T) {
	set := argdef.NewSet(argdef.NewFlag("verbose", token.LongName("verbose")))
	_, err := Bind(token.Split([]string{"--verbose", "a", "b", "c"}), set)

	var unexpected *UnexpectedValuesError
	if !errors.As(err, &unexpected) {
		t.Fatalf("error = %v, want UnexpectedValuesError", err)
	}
	if len(unexpected.Values) != 3 {
		t.Errorf("len(Values) = %d, want 3", len(unexpected.Values))
	}
	want := "3 unexpected arguments: 'a', 'b', 'c'"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestBindSingleUnexpectedValue(t *testing.T) {
	set := argdef.NewSet(argdef.NewFlag("verbose", token.LongName("verbose")))
	_, err := Bind(token.Split([]string{"stray"}), set)
	var unexpected *UnexpectedValuesError
	if !errors.As(err, &unexpected) {
		t.Fatalf("error = %v, want UnexpectedValuesError", err)
	}
	if got := err.Error(); got != "Unexpected argument 'stray'" {
		t.Errorf("Error() = %q, want %q", got, "Unexpected argument 'stray'")
	}
}

func TestBindAllowedValues(t *testing.T) {
	set := argdef.NewSet(
		argdef.NewOption("format", token.LongName("format")).WithAllowed("json", "text"),
	)
	if _, err := Bind(token.Split([]string{"--format", "json"}), set); err != nil {
		t.Fatalf("valid value rejected: %v", err)
	}

	_, err := Bind(token.Split([]string{"--format", "xml"}), set)
	var invalid *InvalidValueError
	if !errors.As(err, &invalid) {
		t.Fatalf("error = %v, want InvalidValueError", err)
	}
	want := "The value 'xml' is invalid for '--format <format>'. Please provide one of 'json', 'text'."
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestBindDefaultsCarryDefaultOrigin(t *testing.T) {
	set := argdef.NewSet(
		argdef.NewOption("format", token.LongName("format")).WithDefault("text"),
	)
	bv := mustBind(t, nil, set)
	b, ok := bv.Lookup("format")
	if !ok {
		t.Fatal("format not bound from default")
	}
	if !b.Last().Origin.Default {
		t.Error("Origin.Default = false, want true")
	}
	if b.Last().Literal != "text" {
		t.Errorf("literal = %q, want %q", b.Last().Literal, "text")
	}
}

func TestBindTokenOriginsRecorded(t *testing.T) {
	set := argdef.NewSet(argdef.NewOption("output", token.LongName("output")))
	bv := mustBind(t, []string{"--output", "f"}, set)
	b, _ := bv.Lookup("output")
	origin := b.Last().Origin
	if origin.Default {
		t.Error("Origin.Default = true, want token provenance")
	}
	wantIdx := token.Index{Outer: 1, Sub: token.SubComplete}
	if len(origin.Indices) != 1 || origin.Indices[0] != wantIdx {
		t.Errorf("Indices = %v, want [%v]", origin.Indices, wantIdx)
	}
	if origin.Spelling != "--output" {
		t.Errorf("Spelling = %q, want %q", origin.Spelling, "--output")
	}
}

func TestBindFlagAttachedBoolValue(t *testing.T) {
	set := argdef.NewSet(argdef.NewFlag("cache", token.LongName("cache")))
	bv := mustBind(t, []string{"--cache=false"}, set)
	if got, _ := bv.Last("cache"); got != "false" {
		t.Errorf("cache = %q, want %q", got, "false")
	}

	_, err := Bind(token.Split([]string{"--cache=maybe"}), set)
	var invalid *InvalidValueError
	if !errors.As(err, &invalid) {
		t.Fatalf("error = %v, want InvalidValueError", err)
	}
}

func TestBindIsDeterministic(t *testing.T) {
	set := argdef.NewSet(
		argdef.NewFlag("verbose", token.LongName("verbose"), token.ShortName('v')),
		argdef.NewArrayOption("tag", token.LongName("tag")),
		argdef.NewPositional("file"),
	)
	argv := []string{"-v", "--tag", "a", "--tag=b", "f.txt"}

	first := mustBind(t, argv, set)
	second := mustBind(t, argv, set)

	if !reflect.DeepEqual(first.Keys(), second.Keys()) {
		t.Fatalf("keys differ: %v vs %v", first.Keys(), second.Keys())
	}
	for _, key := range first.Keys() {
		a, _ := first.Lookup(key)
		b, _ := second.Lookup(key)
		if diff := cmp.Diff(a.Values, b.Values); diff != "" {
			t.Errorf("key %q bound differently across parses (-first +second):\n%s", key, diff)
		}
	}
}

func TestScanShortCircuits(t *testing.T) {
	set := argdef.NewSet(argdef.NewFlag("verbose", token.LongName("verbose"))).WithVersion("1.0.0")

	if _, err := Bind(token.Split([]string{"--verbose", "--help"}), set); !errors.Is(err, ErrHelp) {
		t.Errorf("--help error = %v, want ErrHelp", err)
	}
	if _, err := Bind(token.Split([]string{"-h"}), set); !errors.Is(err, ErrHelp) {
		t.Errorf("-h error = %v, want ErrHelp", err)
	}
	if _, err := Bind(token.Split([]string{"--version"}), set); !errors.Is(err, ErrVersion) {
		t.Errorf("--version error = %v, want ErrVersion", err)
	}

	_, err := Bind(token.Split([]string{"--generate-completion-script=zsh"}), set)
	var completion *CompletionRequestError
	if !errors.As(err, &completion) {
		t.Fatalf("completion error = %v, want CompletionRequestError", err)
	}
	if completion.Shell != "zsh" {
		t.Errorf("Shell = %q, want %q", completion.Shell, "zsh")
	}
}

func TestScanShortCircuitsIgnoresPostTerminatorHelp(t *testing.T) {
	set := argdef.NewSet(argdef.NewArrayPositional("rest"))
	bv := mustBind(t, []string{"--", "--help"}, set)
	if got := bv.All("rest"); !reflect.DeepEqual(got, []string{"--help"}) {
		t.Errorf("rest = %v, want [--help]", got)
	}
}

func TestVersionInactiveWithoutVersionString(t *testing.T) {
	set := argdef.NewSet(argdef.NewFlag("verbose", token.LongName("verbose")))
	_, err := Bind(token.Split([]string{"--version"}), set)
	var unknown *UnknownOptionError
	if !errors.As(err, &unknown) {
		t.Fatalf("error = %v, want UnknownOptionError when no version declared", err)
	}
}
