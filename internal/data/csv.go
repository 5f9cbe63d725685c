// Package data loads raw trend datasets from CSV files and hands them to
// the normalizer. Dataset I/O is strictly caller-side glue: the scoring
// core only ever sees finished trend.Series values.
package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/trendpulse/trendpulse/internal/domain/trend"
)

// Column aliases accepted in CSV headers, matched case-insensitively
// after underscore/space folding.
var columnAliases = map[string][]string{
	"trend":       {"trend_name", "trend", "hashtag"},
	"date":        {"date", "created_date", "posted_date", "trend_date", "timestamp"},
	"likes":       {"likes", "like_count"},
	"comments":    {"comments", "comment_count"},
	"shares":      {"shares", "share_count", "reposts"},
	"views":       {"views", "view_count", "reach"},
	"influencers": {"influencer_count", "influencers"},
	"sentiment":   {"sentiment", "sentiment_label", "sentiment_score"},
}

var dateLayouts = []string{"2006-01-02", "2006/01/02", "01/02/2006", time.RFC3339}

// Loader reads raw CSV rows and produces normalized series per trend.
type Loader struct {
	normalizer *trend.Normalizer
}

// NewLoader returns a loader with the default normalizer.
func NewLoader() *Loader {
	return &Loader{normalizer: trend.NewNormalizer()}
}

// LoadFile reads one CSV file and returns a normalized series per trend
// found in it, sorted by trend name.
func (l *Loader) LoadFile(path string) ([]*trend.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	series, err := l.Load(f)
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", path, err)
	}
	return series, nil
}

// Load reads CSV content from r.
func (l *Loader) Load(r io.Reader) ([]*trend.Series, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols, missing := mapColumns(header)
	if _, ok := cols["date"]; !ok {
		return nil, fmt.Errorf("dataset has no recognizable date column")
	}

	rows := make(map[string][]trend.RawDay)
	lineNo := 1
	skipped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		lineNo++
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", lineNo, err)
		}

		name, day, err := parseRow(record, cols)
		if err != nil {
			skipped++
			log.Debug().Int("row", lineNo).Err(err).Msg("Skipping malformed row")
			continue
		}
		rows[name] = append(rows[name], day)
	}

	if skipped > 0 {
		log.Warn().Int("skipped", skipped).Msg("Dataset rows skipped during load")
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("dataset contains no usable rows")
	}

	names := make([]string, 0, len(rows))
	for name := range rows {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*trend.Series, 0, len(names))
	for _, name := range names {
		s, err := l.normalizer.Normalize(name, rows[name])
		if err != nil {
			return nil, fmt.Errorf("normalize trend %q: %w", name, err)
		}
		s.Missing = missing
		out = append(out, s)
	}

	log.Info().Int("trends", len(out)).Msg("Dataset loaded")
	return out, nil
}

// mapColumns resolves header names to field indices and reports which
// signal dimensions have no source column at all.
func mapColumns(header []string) (map[string]int, []string) {
	cols := make(map[string]int)
	for i, h := range header {
		folded := foldName(h)
		for field, aliases := range columnAliases {
			if _, taken := cols[field]; taken {
				continue
			}
			for _, alias := range aliases {
				if folded == alias {
					cols[field] = i
					break
				}
			}
		}
	}

	var missing []string
	if !hasAll(cols, "likes", "comments", "shares", "views") {
		missing = append(missing, "engagement")
	}
	if _, ok := cols["sentiment"]; !ok {
		missing = append(missing, "sentiment")
	}
	if _, ok := cols["influencers"]; !ok {
		missing = append(missing, "influencer")
	}
	// Saturation derives from trend age, so a date column is enough.

	return cols, missing
}

func hasAll(cols map[string]int, fields ...string) bool {
	for _, f := range fields {
		if _, ok := cols[f]; !ok {
			return false
		}
	}
	return true
}

func foldName(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, " ", "_")
	h = strings.ReplaceAll(h, "-", "_")
	return h
}

func parseRow(record []string, cols map[string]int) (string, trend.RawDay, error) {
	get := func(field string) string {
		idx, ok := cols[field]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	date, err := parseDate(get("date"))
	if err != nil {
		return "", trend.RawDay{}, err
	}

	name := get("trend")
	if name == "" {
		name = "unknown"
	}

	day := trend.RawDay{
		Date:            date,
		Likes:           parseNumber(get("likes")),
		Comments:        parseNumber(get("comments")),
		Shares:          parseNumber(get("shares")),
		Views:           parseNumber(get("views")),
		InfluencerCount: parseNumber(get("influencers")),
		SentimentValue:  math.NaN(),
	}

	if raw := get("sentiment"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			day.SentimentValue = v
		} else {
			day.SentimentLabel = raw
		}
	}

	return name, day, nil
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("missing date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", raw)
}

// parseNumber returns NaN for blank or malformed values so the
// normalizer imputes them with the series median.
func parseNumber(raw string) float64 {
	if raw == "" {
		return math.NaN()
	}
	raw = strings.ReplaceAll(raw, ",", "")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
