// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package flatten

import (
	"fmt"

	"github.com/vullab/rps-export/pkg/types"
)

// notApplicable is the sentinel written for optional fields absent from a
// record.
const notApplicable = "NA"

// source says which part of the session document a cell value comes from.
type source int

const (
	fromRound   source = iota // a key on the round record
	fromSession               // a key on the session document
	fromConst                 // a literal declared by the schema
)

// Rule is one player's extraction rule for a column. Optional rules
// substitute Default when the key is absent; required rules fail the run.
type Rule struct {
	From     source
	Key      string
	Const    string
	Optional bool
	Default  string
}

// Column is one CSV column with a rule per player. Each round produces two
// rows, so each column resolves twice.
type Column struct {
	Name   string
	P1, P2 Rule
}

// Schema is the ordered column table for one experiment version.
type Schema struct {
	Version types.SchemaVersion
	Columns []Column
}

// Header returns the CSV header row in column order.
func (s *Schema) Header() []string {
	header := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		header[i] = c.Name
	}
	return header
}

// SchemaFor returns the column table for a schema version.
func SchemaFor(v types.SchemaVersion) (*Schema, error) {
	switch v {
	case types.SchemaV1:
		return schemaV1, nil
	case types.SchemaV3:
		return schemaV3, nil
	}
	return nil, fmt.Errorf("unsupported schema version %q", v)
}

// Versions lists the supported schema versions.
func Versions() []*Schema {
	return []*Schema{schemaV1, schemaV3}
}

// roundCol reads the same round key into both players' rows.
func roundCol(key string) Column {
	r := Rule{From: fromRound, Key: key}
	return Column{Name: key, P1: r, P2: r}
}

// sessionCol reads a session-level key, duplicated into both rows.
func sessionCol(name, key string) Column {
	r := Rule{From: fromSession, Key: key}
	return Column{Name: name, P1: r, P2: r}
}

// playerCol reads "player1_<field>" for the first row and "player2_<field>"
// for the second.
func playerCol(name, field string) Column {
	return Column{
		Name: name,
		P1:   Rule{From: fromRound, Key: "player1_" + field},
		P2:   Rule{From: fromRound, Key: "player2_" + field},
	}
}

// schemaV1 covers the original experiment: two human players, no session
// metadata beyond the rounds themselves.
var schemaV1 = &Schema{
	Version: types.SchemaV1,
	Columns: []Column{
		roundCol("game_id"),
		roundCol("round_index"),
		playerCol("player_id", "id"),
		roundCol("round_begin_ts"),
		playerCol("player_move", "move"),
		playerCol("player_rt", "rt"),
		playerCol("player_outcome", "outcome"),
		playerCol("player_outcome_viewtime", "outcome_viewtime"),
		playerCol("player_points", "points"),
		playerCol("player_total", "total"),
	},
}

// schemaV3 covers the human-versus-bot experiment. Player 1 is always the
// human participant and player 2 the bot opponent; the is_bot flags are
// declared here as schema constants, not read from the record. Player 2's
// move and memory structure are the only optional fields.
var schemaV3 = &Schema{
	Version: types.SchemaV3,
	Columns: []Column{
		roundCol("game_id"),
		sessionCol("version", "version"),
		sessionCol("is_sona_autocredit", "sona"),
		sessionCol("sona_experiment_id", "experiment_id"),
		sessionCol("sona_credit_token", "credit_token"),
		sessionCol("sona_survey_code", "survey_code"),
		roundCol("round_index"),
		{
			Name: "player_id",
			P1:   Rule{From: fromRound, Key: "player1_id"},
			P2:   Rule{From: fromSession, Key: "player2_botid"},
		},
		{
			Name: "is_bot",
			P1:   Rule{From: fromConst, Const: "0"},
			P2:   Rule{From: fromConst, Const: "1"},
		},
		sessionCol("bot_strategy", "player2_bot_strategy"),
		{
			Name: "bot_round_memory",
			P1:   Rule{From: fromConst, Const: notApplicable},
			P2:   Rule{From: fromRound, Key: "player2_memory_struct", Optional: true, Default: notApplicable},
		},
		roundCol("round_begin_ts"),
		{
			Name: "player_move",
			P1:   Rule{From: fromRound, Key: "player1_move"},
			P2:   Rule{From: fromRound, Key: "player2_move", Optional: true, Default: notApplicable},
		},
		playerCol("player_rt", "rt"),
		playerCol("player_outcome", "outcome"),
		playerCol("player_outcome_viewtime", "outcome_viewtime"),
		playerCol("player_points", "points"),
		playerCol("player_total", "total"),
	},
}
