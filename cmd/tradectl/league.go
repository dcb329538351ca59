package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/efreitasn/tradedesk/internal/config"
	"github.com/efreitasn/tradedesk/internal/domain"
	"github.com/efreitasn/tradedesk/internal/engine"
	"github.com/efreitasn/tradedesk/internal/service"
	"github.com/efreitasn/tradedesk/internal/store"
	"github.com/efreitasn/tradedesk/internal/wire"
)

// league is a league file loaded into an in-memory store, with the same
// services the HTTP server runs.
type league struct {
	teams  *service.TeamService
	trades *service.TradeService
	file   wire.League
}

// openLeague reads the league file, registers every team, replays the trade
// history, and drops exceptions that lapsed before the current date.
func openLeague(ctx context.Context, opts *options) (*league, error) {
	rules, calendar, err := leagueSettings(opts)
	if err != nil {
		return nil, err
	}

	file, err := readLeague(opts.leaguePath)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tradeLog := store.NewTradeLog()
	repo := store.NewTeamStore(tradeLog)
	expiry := engine.NewExpiryIndex(time.Hour, calendar, logger)

	lg := &league{
		teams:  service.NewTeamService(repo, rules, expiry, logger),
		trades: service.NewTradeService(repo, rules, calendar, expiry, time.Minute, logger),
		file:   file,
	}

	for _, wt := range file.Teams {
		team, err := wt.ToDomain()
		if err != nil {
			return nil, fmt.Errorf("team %s: %w", wt.ID, err)
		}
		if _, err := lg.teams.Register(ctx, team); err != nil {
			return nil, fmt.Errorf("team %s: %w", wt.ID, err)
		}
	}
	for _, wr := range file.Trades {
		rec, err := wr.ToDomain()
		if err != nil {
			return nil, fmt.Errorf("trade %s: %w", wr.TradeID, err)
		}
		tradeLog.Append(rec)
	}

	expiry.Sweep(ctx, lg.trades)
	return lg, nil
}

// save writes every team plus the full trade history to path.
func (lg *league) save(ctx context.Context, path string, rec *domain.TradeRecord) error {
	teams, err := lg.teams.List(ctx)
	if err != nil {
		return err
	}

	out := wire.League{
		Teams:  make([]wire.Team, len(teams)),
		Trades: append(lg.file.Trades, wire.FromTradeRecord(rec)),
	}
	for i, t := range teams {
		out.Teams[i] = wire.FromTeam(t)
	}
	return writeJSONFile(path, out)
}

func leagueSettings(opts *options) (engine.Rules, domain.Calendar, error) {
	cfg, err := config.LoadLeague()
	if err != nil {
		return engine.Rules{}, nil, err
	}
	year := cfg.SeasonYear
	if opts.year != 0 {
		year = opts.year
	}

	if opts.date == "" {
		return cfg.Rules(), domain.SystemCalendar{Year: year}, nil
	}
	date, err := time.Parse(time.DateOnly, opts.date)
	if err != nil {
		return engine.Rules{}, nil, fmt.Errorf("invalid --date %q: want YYYY-MM-DD", opts.date)
	}
	return cfg.Rules(), domain.FixedCalendar{Year: year, Date: date}, nil
}

func readLeague(path string) (wire.League, error) {
	var l wire.League
	if err := readJSONFile(path, &l); err != nil {
		return wire.League{}, fmt.Errorf("read league: %w", err)
	}
	return l, nil
}

func readProposal(path string) (domain.TradeProposal, error) {
	if path == "" {
		return domain.TradeProposal{}, errors.New("--proposal is required")
	}
	var p wire.Proposal
	if err := readJSONFile(path, &p); err != nil {
		return domain.TradeProposal{}, fmt.Errorf("read proposal: %w", err)
	}
	return p.ToDomain()
}

func readJSONFile(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// writeJSONFile replaces path atomically through a temp file in the same
// directory.
func writeJSONFile(path string, v any) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tradectl-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
