package data

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullDataset = `trend_name,date,likes,comments,shares,views,influencer_count,sentiment
#dance,2026-01-01,1000,200,100,10000,10,positive
#dance,2026-01-02,800,150,80,10000,8,positive
#dance,2026-01-03,500,100,50,10000,5,neutral
#cats,2026-01-01,300,60,30,5000,3,neutral
#cats,2026-01-02,280,55,28,5000,3,neutral
`

func TestLoad_FullDataset(t *testing.T) {
	series, err := NewLoader().Load(strings.NewReader(fullDataset))
	require.NoError(t, err)
	require.Len(t, series, 2)

	// Sorted by trend name.
	assert.Equal(t, "#cats", series[0].Name)
	assert.Equal(t, "#dance", series[1].Name)

	assert.Equal(t, 2, series[0].Len())
	assert.Equal(t, 3, series[1].Len())
	assert.Empty(t, series[1].Missing)

	// (1000+200+100)/10000 on the first #dance day.
	assert.InDelta(t, 0.13, series[1].Days[0].EngagementRate, 1e-9)
	assert.InDelta(t, 0.8, series[1].Days[0].SentimentScore, 1e-9)
}

func TestLoad_HeaderAliasesAndFolding(t *testing.T) {
	csv := "Hashtag,Created Date,Like-Count,comment_count,reposts,reach,Influencers,Sentiment_Label\n" +
		"#x,2026-01-01,10,2,1,100,1,negative\n" +
		"#x,2026-01-02,8,2,1,100,1,negative\n"

	series, err := NewLoader().Load(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Empty(t, series[0].Missing)
	assert.InDelta(t, 0.2, series[0].Days[0].SentimentScore, 1e-9)
}

func TestLoad_MissingColumnsMarkDimensions(t *testing.T) {
	csv := "trend_name,date,likes,comments,shares,views\n" +
		"#quiet,2026-01-01,10,2,1,100\n" +
		"#quiet,2026-01-02,9,2,1,100\n"

	series, err := NewLoader().Load(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, series, 1)

	assert.ElementsMatch(t, []string{"sentiment", "influencer"}, series[0].Missing)
	assert.False(t, series[0].HasDimension("sentiment"))
	assert.True(t, series[0].HasDimension("engagement"))
	assert.True(t, series[0].HasDimension("saturation"))
}

func TestLoad_PartialEngagementColumnsMarkEngagementMissing(t *testing.T) {
	csv := "trend_name,date,likes,sentiment\n" +
		"#partial,2026-01-01,10,positive\n"

	series, err := NewLoader().Load(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Contains(t, series[0].Missing, "engagement")
}

func TestLoad_SkipsMalformedRows(t *testing.T) {
	csv := "trend_name,date,likes,comments,shares,views,influencer_count,sentiment\n" +
		"#ok,2026-01-01,10,2,1,100,1,neutral\n" +
		"#bad,not-a-date,10,2,1,100,1,neutral\n" +
		"#ok,2026-01-02,9,2,1,100,1,neutral\n"

	series, err := NewLoader().Load(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, 2, series[0].Len())
}

func TestLoad_BlankNumbersAreImputed(t *testing.T) {
	csv := "trend_name,date,likes,comments,shares,views,influencer_count,sentiment\n" +
		"#gap,2026-01-01,100,10,5,1000,2,neutral\n" +
		"#gap,2026-01-02,,10,5,1000,2,neutral\n" +
		"#gap,2026-01-03,300,10,5,1000,2,neutral\n"

	series, err := NewLoader().Load(strings.NewReader(csv))
	require.NoError(t, err)
	require.Equal(t, 3, series[0].Len())

	// Blank likes imputed with the median of 100 and 300.
	assert.InDelta(t, (200.0+10+5)/1000, series[0].Days[1].EngagementRate, 1e-9)
}

func TestLoad_NumericSentimentColumn(t *testing.T) {
	csv := "trend_name,date,likes,comments,shares,views,influencer_count,sentiment_score\n" +
		"#score,2026-01-01,10,2,1,100,1,0.42\n"

	series, err := NewLoader().Load(strings.NewReader(csv))
	require.NoError(t, err)
	assert.InDelta(t, 0.42, series[0].Days[0].SentimentScore, 1e-9)
}

func TestLoad_NoDateColumnFails(t *testing.T) {
	_, err := NewLoader().Load(strings.NewReader("trend_name,likes\n#x,10\n"))
	assert.ErrorContains(t, err, "date column")
}

func TestLoad_NoUsableRowsFails(t *testing.T) {
	csv := "trend_name,date,likes\n#x,never,10\n"
	_, err := NewLoader().Load(strings.NewReader(csv))
	assert.ErrorContains(t, err, "no usable rows")
}

func TestLoadFile_MissingFileFails(t *testing.T) {
	_, err := NewLoader().LoadFile("testdata/does-not-exist.csv")
	assert.Error(t, err)
}
