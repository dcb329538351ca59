package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/efreitasn/tradedesk/internal/domain"
	"github.com/efreitasn/tradedesk/internal/wire"
)

func player(id, name, position string, salary int64) wire.Player {
	return wire.Player{
		ID:       id,
		Name:     name,
		Position: position,
		Contract: wire.Contract{Salary: salary, YearsRemaining: 2, Guaranteed: true},
	}
}

func testLeague() wire.League {
	return wire.League{Teams: []wire.Team{
		{
			ID:   "LAL",
			Name: "Los Angeles",
			Roster: []wire.Player{
				player("P001", "LeBron James", "SF", 47_600_000),
				player("P002", "Anthony Davis", "PF", 43_200_000),
			},
			CapTier:    "above_second_apron",
			DraftPicks: []wire.DraftPick{{Year: 2026, Round: 1, OriginalTeamID: "LAL"}},
		},
		{
			ID:   "BOS",
			Name: "Boston",
			Roster: []wire.Player{
				player("P003", "Jayson Tatum", "SF", 34_800_000),
				player("P004", "Jaylen Brown", "SG", 31_800_000),
				player("P005", "Marcus Smart", "PG", 20_000_000),
			},
			CapTier: "above_cap_below_first_apron",
			Exceptions: []wire.Exception{{
				ID:        "TPE-OLD",
				Amount:    5_000_000,
				ExpiresAt: time.Date(2019, time.February, 1, 0, 0, 0, 0, time.UTC),
			}},
		},
	}}
}

func writeFile(t *testing.T, dir, name string, v any) string {
	t.Helper()
	path := filepath.Join(dir, name)
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal %s: %v", name, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func proposal(aOut, bOut []string) wire.Proposal {
	p := wire.Proposal{TeamAID: "LAL", TeamBID: "BOS"}
	for _, id := range aOut {
		p.TeamAOut = append(p.TeamAOut, wire.Asset{Type: domain.AssetKindPlayer, PlayerID: id})
	}
	for _, id := range bOut {
		p.TeamBOut = append(p.TeamBOut, wire.Asset{Type: domain.AssetKindPlayer, PlayerID: id})
	}
	return p
}

// run executes the CLI against a fresh league and proposal in a temp dir.
func run(t *testing.T, p wire.Proposal, args ...string) (string, string, error) {
	t.Helper()
	color.NoColor = true

	dir := t.TempDir()
	leaguePath := writeFile(t, dir, "league.json", testLeague())
	proposalPath := writeFile(t, dir, "proposal.json", p)

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	// Defaults go first so flags in args override them.
	argv := []string{args[0],
		"--league", leaguePath,
		"--proposal", proposalPath,
		"--year", "2019",
		"--date", "2019-07-01",
	}
	cmd.SetArgs(append(argv, args[1:]...))
	err := cmd.Execute()
	return out.String(), leaguePath, err
}

func readBack(t *testing.T, path string) wire.League {
	t.Helper()
	var l wire.League
	if err := readJSONFile(path, &l); err != nil {
		t.Fatalf("read league back: %v", err)
	}
	return l
}

func TestValidate_Valid(t *testing.T) {
	out, _, err := run(t, proposal([]string{"P002"}, []string{"P003"}), "validate")
	if err != nil {
		t.Fatalf("unexpected error: %v (output: %s)", err, out)
	}
	for _, want := range []string{"VALID", "$43,200,000", "$43,750,000", "team A exception $8,400,000"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestValidate_Invalid(t *testing.T) {
	out, _, err := run(t, proposal(nil, []string{"P005"}), "validate")
	if !errors.Is(err, errTradeRejected) {
		t.Fatalf("expected errTradeRejected, got %v", err)
	}
	if !strings.Contains(out, "INVALID (salary_match)") || !strings.Contains(out, "over by $20,000,000") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestValidate_JSON(t *testing.T) {
	out, _, err := run(t, proposal([]string{"P002"}, []string{"P003"}), "validate", "--json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var result wire.Result
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("output is not a result: %v\n%s", err, out)
	}
	if !result.Valid || result.Approval.ExceptionA != 8_400_000 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestValidate_DoesNotWrite(t *testing.T) {
	_, path, err := run(t, proposal([]string{"P002"}, []string{"P003"}), "validate")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l := readBack(t, path)
	if len(l.Teams[0].Roster) != 2 || len(l.Trades) != 0 {
		t.Errorf("league should be unchanged: %+v", l)
	}
}

func TestExecute_WritesLeague(t *testing.T) {
	out, path, err := run(t, proposal([]string{"P002"}, []string{"P003"}), "execute")
	if err != nil {
		t.Fatalf("unexpected error: %v (output: %s)", err, out)
	}
	if !strings.Contains(out, "EXECUTED") {
		t.Errorf("output missing verdict:\n%s", out)
	}

	l := readBack(t, path)
	if len(l.Trades) != 1 {
		t.Fatalf("expected 1 trade in history, got %d", len(l.Trades))
	}
	teams := make(map[string]wire.Team)
	for _, team := range l.Teams {
		teams[team.ID] = team
	}

	lal, bos := teams["LAL"], teams["BOS"]
	if lal.TotalSalary != 82_400_000 || bos.TotalSalary != 95_000_000 {
		t.Errorf("salaries = %d/%d, want 82400000/95000000", lal.TotalSalary, bos.TotalSalary)
	}
	if len(lal.Exceptions) != 1 || lal.Exceptions[0].Amount != 8_400_000 {
		t.Errorf("LAL exceptions = %+v", lal.Exceptions)
	}
	// TPE-OLD lapsed in February and is dropped on load.
	if len(bos.Exceptions) != 0 {
		t.Errorf("BOS exceptions = %+v, want none", bos.Exceptions)
	}
}

func TestExecute_Invalid(t *testing.T) {
	out, path, err := run(t, proposal(nil, []string{"P005"}), "execute")
	if !errors.Is(err, errTradeRejected) {
		t.Fatalf("expected errTradeRejected, got %v", err)
	}
	if !strings.Contains(out, "INVALID") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if l := readBack(t, path); len(l.Trades) != 0 {
		t.Error("rejected trade should not be written")
	}
}

func TestExecute_Out(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "after.json")
	_, path, err := run(t, proposal([]string{"P002"}, []string{"P003"}), "execute", "--out", outPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l := readBack(t, outPath); len(l.Trades) != 1 {
		t.Errorf("--out file should hold the trade")
	}
	if l := readBack(t, path); len(l.Trades) != 0 {
		t.Errorf("--league file should be untouched")
	}
}

func TestMissingProposalFlag(t *testing.T) {
	path := writeFile(t, t.TempDir(), "league.json", testLeague())

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"validate", "--league", path})
	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "--proposal") {
		t.Fatalf("expected --proposal error, got %v", err)
	}
}

func TestBadDate(t *testing.T) {
	_, _, err := run(t, proposal([]string{"P002"}, []string{"P003"}), "validate", "--date", "07/01/2019")
	if err == nil || !strings.Contains(err.Error(), "--date") {
		t.Fatalf("expected --date error, got %v", err)
	}
}

func TestHistory_AfterExecute(t *testing.T) {
	_, path, err := run(t, proposal([]string{"P002"}, []string{"P003"}), "execute")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	for _, tc := range []struct {
		team, want string
	}{
		{"LAL", "with BOS"},
		{"BOS", "with LAL"},
	} {
		cmd := newRootCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"history", "--league", path, "--team", tc.team, "--date", "2019-07-01"})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("history %s: %v", tc.team, err)
		}
		if !strings.Contains(out.String(), tc.want) {
			t.Errorf("history %s missing %q:\n%s", tc.team, tc.want, out.String())
		}
	}
}

func TestHistory_UnknownTeam(t *testing.T) {
	color.NoColor = true
	path := writeFile(t, t.TempDir(), "league.json", testLeague())

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"history", "--league", path, "--team", "NYK"})
	err := cmd.Execute()
	if !errors.Is(err, domain.ErrTeamNotFound) {
		t.Fatalf("expected ErrTeamNotFound, got %v", err)
	}
}
