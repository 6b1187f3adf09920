package analytics

import "github.com/gradepulse/gradepulse/internal/domain/subject"

// ChartSeries is one subject's marks keyed by exam type.
type ChartSeries struct {
	Name  string                       `json:"name"`
	Marks map[subject.ExamType]float64 `json:"marks"`
}

// Chart is the data behind the grade chart.
type Chart struct {
	ExamTypes []subject.ExamType `json:"examTypes"`
	Series    []ChartSeries      `json:"series"`
}

// ComputeChart builds one series per subject name. When a subject has
// several entries of the same exam type the latest one is plotted.
func ComputeChart(records []subject.Record) Chart {
	chart := Chart{}
	for _, t := range ComputeByExamType(records) {
		chart.ExamTypes = append(chart.ExamTypes, t.ExamType)
	}

	index := make(map[string]int)
	for _, r := range records {
		i, ok := index[r.Name]
		if !ok {
			i = len(chart.Series)
			index[r.Name] = i
			chart.Series = append(chart.Series, ChartSeries{Name: r.Name, Marks: map[subject.ExamType]float64{}})
		}
		chart.Series[i].Marks[r.ExamType] = r.Marks
	}
	return chart
}

// Report bundles every aggregate needed for one render.
type Report struct {
	Count        int               `json:"count"`
	CGPA         Metric            `json:"cgpa"`
	Percentage   Metric            `json:"percentage"`
	TotalCredits float64           `json:"totalCredits"`
	ByExamType   []ExamTypeAverage `json:"byExamType"`
	BySubject    []SubjectAverage  `json:"bySubject"`
	PassFail     PassFail          `json:"passFail"`
	Feedback     Feedback          `json:"feedback"`
	Summary      Summary           `json:"summary"`
	Chart        Chart             `json:"chart"`
}

// Summarize computes the full report for a snapshot.
func Summarize(records []subject.Record) Report {
	return Report{
		Count:        len(records),
		CGPA:         ComputeCGPA(records),
		Percentage:   ComputePercentage(records),
		TotalCredits: TotalCredits(records),
		ByExamType:   ComputeByExamType(records),
		BySubject:    ComputeBySubject(records),
		PassFail:     ComputePassFail(records),
		Feedback:     ComputeFeedback(records),
		Summary:      OverallSummary(records),
		Chart:        ComputeChart(records),
	}
}
