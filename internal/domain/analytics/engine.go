// Package analytics derives academic metrics from a snapshot of subject
// records. Every function here is pure: it reads the slice it is given and
// never mutates it.
package analytics

import (
	"github.com/gradepulse/gradepulse/internal/domain/subject"
)

// Metric is a derived number that may be undefined. When Available is
// false, Value is 0 and the presentation layer shows "N/A".
type Metric struct {
	Value     float64 `json:"value"`
	Available bool    `json:"available"`
}

// ExamTypeAverage is the credit-weighted mean of marks for one exam type.
type ExamTypeAverage struct {
	ExamType subject.ExamType `json:"examType"`
	Average  float64          `json:"average"`
	Credits  float64          `json:"credits"`
	Count    int              `json:"count"`
}

// ExamEntry is one exam result shown under a subject.
type ExamEntry struct {
	ID       string           `json:"id"`
	ExamType subject.ExamType `json:"examType"`
	Marks    float64          `json:"marks"`
}

// SubjectAverage is the unweighted mean of marks for one subject name.
type SubjectAverage struct {
	Name    string      `json:"name"`
	Average float64     `json:"average"`
	Entries []ExamEntry `json:"entries"`
}

// PassFail classifies records by whether they earn a grade point.
type PassFail struct {
	Total       int     `json:"total"`
	Passed      int     `json:"passed"`
	Failed      int     `json:"failed"`
	FailureRate float64 `json:"failureRate"`
}

// ComputeCGPA returns Σ(gpa·credits)/Σcredits. The GPA is re-derived from
// marks so a stale cached value cannot leak into the result.
func ComputeCGPA(records []subject.Record) Metric {
	var weighted, credits float64
	for _, r := range records {
		weighted += float64(subject.GradePoint(r.Marks)) * r.Credits
		credits += r.Credits
	}
	if credits <= 0 {
		return Metric{}
	}
	return Metric{Value: weighted / credits, Available: true}
}

// ComputePercentage returns Σ(marks·credits)/Σ(100·credits)·100.
func ComputePercentage(records []subject.Record) Metric {
	var obtained, possible float64
	for _, r := range records {
		obtained += r.Marks * r.Credits
		possible += 100 * r.Credits
	}
	if possible <= 0 {
		return Metric{}
	}
	return Metric{Value: obtained / possible * 100, Available: true}
}

// TotalCredits sums credits over all records.
func TotalCredits(records []subject.Record) float64 {
	var total float64
	for _, r := range records {
		total += r.Credits
	}
	return total
}

// ComputeByExamType groups records by exam type. Only exam types that
// appear are returned, in canonical order.
func ComputeByExamType(records []subject.Record) []ExamTypeAverage {
	type acc struct {
		weighted, credits float64
		count             int
	}
	groups := make(map[subject.ExamType]*acc)
	for _, r := range records {
		a, ok := groups[r.ExamType]
		if !ok {
			a = &acc{}
			groups[r.ExamType] = a
		}
		a.weighted += r.Marks * r.Credits
		a.credits += r.Credits
		a.count++
	}

	out := make([]ExamTypeAverage, 0, len(groups))
	emit := func(t subject.ExamType) {
		a, ok := groups[t]
		if !ok {
			return
		}
		avg := 0.0
		if a.credits > 0 {
			avg = a.weighted / a.credits
		}
		out = append(out, ExamTypeAverage{ExamType: t, Average: avg, Credits: a.credits, Count: a.count})
		delete(groups, t)
	}
	for _, t := range subject.ExamTypes {
		emit(t)
	}
	// Unknown exam types from a misbehaving remote go last, in record order.
	for _, r := range records {
		emit(r.ExamType)
	}
	return out
}

// ComputeBySubject groups records by name in first-appearance order.
func ComputeBySubject(records []subject.Record) []SubjectAverage {
	index := make(map[string]int)
	var out []SubjectAverage
	for _, r := range records {
		i, ok := index[r.Name]
		if !ok {
			i = len(out)
			index[r.Name] = i
			out = append(out, SubjectAverage{Name: r.Name})
		}
		out[i].Entries = append(out[i].Entries, ExamEntry{ID: r.ID, ExamType: r.ExamType, Marks: r.Marks})
	}
	for i := range out {
		var sum float64
		for _, e := range out[i].Entries {
			sum += e.Marks
		}
		out[i].Average = sum / float64(len(out[i].Entries))
	}
	return out
}

// ComputePassFail counts passing and failing records.
func ComputePassFail(records []subject.Record) PassFail {
	pf := PassFail{Total: len(records)}
	for _, r := range records {
		if subject.GradePoint(r.Marks) > 0 {
			pf.Passed++
		}
	}
	pf.Failed = pf.Total - pf.Passed
	if pf.Total > 0 {
		pf.FailureRate = float64(pf.Failed) / float64(pf.Total) * 100
	}
	return pf
}
