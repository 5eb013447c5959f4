package score

import (
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"git.lost.host/meutraa/lanes/internal/game"
	_ "github.com/mattn/go-sqlite3"
)

type DefaultScorer struct {
	db *sql.DB
}

type InputsCompact struct {
	Index    int
	Times    []time.Duration
	Releases []time.Duration `json:",omitempty"`
}

func compactInputs(inputs []game.Input) []InputsCompact {
	colCount := 0
	for _, i := range inputs {
		if i.Index >= colCount {
			colCount = i.Index + 1
		}
	}
	ins := make([]InputsCompact, colCount)
	for i := range ins {
		ins[i].Index = i
		ins[i].Times = []time.Duration{}
	}
	for _, i := range inputs {
		if i.Release {
			ins[i.Index].Releases = append(ins[i.Index].Releases, i.HitTime)
		} else {
			ins[i.Index].Times = append(ins[i.Index].Times, i.HitTime)
		}
	}
	return ins
}

func uncompactInputs(inputs []InputsCompact) []game.Input {
	ins := []game.Input{}
	for _, i := range inputs {
		for _, t := range i.Times {
			ins = append(ins, game.Input{Index: i.Index, HitTime: t})
		}
		for _, t := range i.Releases {
			ins = append(ins, game.Input{Index: i.Index, HitTime: t, Release: true})
		}
	}
	return ins
}

func Open(path string) (*DefaultScorer, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("unable to open score database: %w", err)
	}

	initStatement := `
	create table if not exists scores
	  (
		  id integer not null primary key,
		  sum text not null,
		  speed real,
		  inputs bytearray,
		  score integer,
		  max_combo integer,
		  accuracy real,
		  counts text,
		  played integer
	  );
	create index if not exists scores_sum on scores(sum);
	`
	if _, err = db.Exec(initStatement); nil != err {
		db.Close()
		return nil, fmt.Errorf("unable to create score table: %w", err)
	}

	return &DefaultScorer{db: db}, nil
}

func (s *DefaultScorer) Close() error {
	if nil != s.db {
		return s.db.Close()
	}
	return nil
}

// HashChart identifies a chart by its notes, renaming the file keeps scores.
func HashChart(c *game.Chart) string {
	data, _ := json.Marshal(struct {
		BPM    float64
		Tracks [][]int
	}{c.BPM, c.Tracks})
	sum := sha256.Sum256(data)
	return base64.StdEncoding.EncodeToString(sum[:])
}

func (s *DefaultScorer) Save(c *game.Chart, h *History) error {
	data, err := json.Marshal(compactInputs(h.Inputs))
	if nil != err {
		return fmt.Errorf("unable to marshal inputs: %w", err)
	}
	counts, err := json.Marshal(h.Counts)
	if nil != err {
		return fmt.Errorf("unable to marshal counts: %w", err)
	}
	played := h.Played
	if played.IsZero() {
		played = time.Now()
	}
	h.Sum = HashChart(c)
	_, err = s.db.Exec(
		"insert into scores(sum, speed, inputs, score, max_combo, accuracy, counts, played) values(?, ?, ?, ?, ?, ?, ?, ?)",
		h.Sum, h.Speed, data, h.Score, h.MaxCombo, h.Accuracy, string(counts), played.Unix(),
	)
	if nil != err {
		return fmt.Errorf("unable to save score: %w", err)
	}
	return nil
}

const selectHistory = "select sum, speed, inputs, score, max_combo, accuracy, counts, played from scores"

func scanHistory(rows *sql.Rows) (*History, error) {
	var h History
	var inputs []byte
	var counts string
	var played int64
	if err := rows.Scan(&h.Sum, &h.Speed, &inputs, &h.Score, &h.MaxCombo, &h.Accuracy, &counts, &played); nil != err {
		return nil, err
	}
	var ns []InputsCompact
	if err := json.Unmarshal(inputs, &ns); nil != err {
		return nil, fmt.Errorf("unable to unmarshal input history: %w", err)
	}
	if err := json.Unmarshal([]byte(counts), &h.Counts); nil != err {
		return nil, fmt.Errorf("unable to unmarshal counts: %w", err)
	}
	h.Inputs = uncompactInputs(ns)
	h.Played = time.Unix(played, 0)
	h.Grade = Grade(h.Accuracy)
	return &h, nil
}

func (s *DefaultScorer) Load(c *game.Chart) ([]History, error) {
	histories := []History{}
	rows, err := s.db.Query(selectHistory+" where sum = ? order by id", HashChart(c))
	if nil != err {
		return histories, fmt.Errorf("unable to load scores: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		h, err := scanHistory(rows)
		if nil != err {
			log.Println("skipping score", err)
			continue
		}
		histories = append(histories, *h)
	}
	return histories, rows.Err()
}

// Best returns nil when the chart was never played.
func (s *DefaultScorer) Best(c *game.Chart) (*History, error) {
	rows, err := s.db.Query(selectHistory+" where sum = ? order by score desc, id limit 1", HashChart(c))
	if nil != err {
		return nil, fmt.Errorf("unable to load best score: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanHistory(rows)
}
