package analytics

import "github.com/gradepulse/gradepulse/internal/domain/subject"

// Band names a feedback tier.
type Band string

// CGPA bands.
const (
	BandNoData    Band = "no_data"
	BandCritical  Band = "critical"
	BandAverage   Band = "average"
	BandGood      Band = "good"
	BandExcellent Band = "excellent"
)

// Per-subject bands, keyed on the unweighted mean of marks.
const (
	BandExceptional Band = "exceptional"
	BandStrong      Band = "strong"
	BandSolid       Band = "solid"
	BandProgressing Band = "progressing"
	BandFoundation  Band = "foundation"
	BandAttention   Band = "attention"
)

// Overall percentage bands.
const (
	BandOutstanding Band = "outstanding"
	BandOnTrack     Band = "on_track"
	BandNeedsEffort Band = "needs_effort"
)

const (
	AdviceNoData    = "Add subjects in the entry section to receive performance advice."
	AdviceCritical  = "Critical alert! Your CGPA is low. Immediately seek tutoring and prioritize studying for failed/low-scoring subjects."
	AdviceAverage   = "Current performance is average. Identify subjects below 60 marks and schedule extra study time."
	AdviceGood      = "Good job! Focus on core subjects to push your CGPA higher."
	AdviceExcellent = "Overall performance is excellent. Keep up the hard work!"
)

type threshold struct {
	min     float64
	band    Band
	message string
}

// Checked top-down; the first threshold not above the value applies.
var cgpaThresholds = []threshold{
	{8, BandExcellent, AdviceExcellent},
	{7, BandGood, AdviceGood},
	{5, BandAverage, AdviceAverage},
}

var subjectThresholds = []threshold{
	{90, BandExceptional, "Exceptional performance! This is a core strength."},
	{80, BandStrong, "Excellent work! Keep aiming for consistency to master this subject."},
	{70, BandSolid, "Very solid results. Focus on reinforcing key areas for higher grades."},
	{60, BandProgressing, "Good progress! With sharper consistency, you'll turn this into a strength."},
	{50, BandFoundation, "Decent foundation! Regular practice will help you unlock better results."},
	{0, BandAttention, "Needs immediate attention. Strengthen your basics and seek conceptual clarity."},
}

var overallThresholds = []threshold{
	{85, BandOutstanding, "Outstanding work! Your consistency and dedication across all subjects are commendable."},
	{70, BandOnTrack, "Strong academic journey so far! Maintain this momentum and fine-tune weaker areas."},
}

const overallNeedsEffort = "A dedicated effort in conceptual understanding across multiple subjects could significantly boost your overall percentage."

// SubjectFeedback is the advisory attached to one subject name.
type SubjectFeedback struct {
	Name    string  `json:"name"`
	Average float64 `json:"average"`
	Band    Band    `json:"band"`
	Message string  `json:"message"`
}

// Feedback is the narrative part of the report.
type Feedback struct {
	Band     Band              `json:"band"`
	Advice   string            `json:"advice"`
	Subjects []SubjectFeedback `json:"subjects"`
}

// Summary is the overall verdict keyed on percentage.
type Summary struct {
	Percentage Metric `json:"percentage"`
	Band       Band   `json:"band"`
	Message    string `json:"message"`
}

// CGPABand classifies a CGPA. The critical band applies only when there is
// at least one record; an empty collection is BandNoData.
func CGPABand(cgpa Metric) (Band, string) {
	if !cgpa.Available {
		return BandNoData, AdviceNoData
	}
	for _, t := range cgpaThresholds {
		if cgpa.Value >= t.min {
			return t.band, t.message
		}
	}
	return BandCritical, AdviceCritical
}

// SubjectBand classifies an unweighted mean of marks.
func SubjectBand(avg float64) (Band, string) {
	for _, t := range subjectThresholds {
		if avg >= t.min {
			return t.band, t.message
		}
	}
	last := subjectThresholds[len(subjectThresholds)-1]
	return last.band, last.message
}

// ComputeFeedback returns CGPA advice and per-subject feedback.
func ComputeFeedback(records []subject.Record) Feedback {
	band, advice := CGPABand(ComputeCGPA(records))
	fb := Feedback{Band: band, Advice: advice}
	for _, s := range ComputeBySubject(records) {
		b, msg := SubjectBand(s.Average)
		fb.Subjects = append(fb.Subjects, SubjectFeedback{
			Name:    s.Name,
			Average: s.Average,
			Band:    b,
			Message: msg,
		})
	}
	return fb
}

// OverallSummary classifies the overall percentage.
func OverallSummary(records []subject.Record) Summary {
	pct := ComputePercentage(records)
	if !pct.Available {
		return Summary{Percentage: pct, Band: BandNoData, Message: AdviceNoData}
	}
	for _, t := range overallThresholds {
		if pct.Value >= t.min {
			return Summary{Percentage: pct, Band: t.band, Message: t.message}
		}
	}
	return Summary{Percentage: pct, Band: BandNeedsEffort, Message: overallNeedsEffort}
}
