package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/gradepulse/gradepulse/internal/application/query"
	"github.com/gradepulse/gradepulse/internal/domain/analytics"
	"github.com/gradepulse/gradepulse/internal/domain/subject"
)

// formatMetric prints an undefined metric as N/A.
func formatMetric(m analytics.Metric, format string) string {
	if !m.Available {
		return "N/A"
	}
	return fmt.Sprintf(format, m.Value)
}

func renderSubjects(w io.Writer, records []subject.Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No subjects recorded yet.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSUBJECT\tEXAM\tMARKS\tCREDITS\tGPA")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%g\t%g\t%d\n", r.ID, r.Name, r.ExamType, r.Marks, r.Credits, r.GPA)
	}
	tw.Flush()
}

func renderReport(w io.Writer, rep *analytics.Report) {
	fmt.Fprintf(w, "Subjects:       %d\n", rep.Count)
	fmt.Fprintf(w, "CGPA:           %s\n", formatMetric(rep.CGPA, "%.2f"))
	fmt.Fprintf(w, "Percentage:     %s\n", formatMetric(rep.Percentage, "%.2f%%"))
	fmt.Fprintf(w, "Total credits:  %g\n", rep.TotalCredits)
	fmt.Fprintf(w, "Passed/failed:  %d/%d (failure rate %.1f%%)\n",
		rep.PassFail.Passed, rep.PassFail.Failed, rep.PassFail.FailureRate)
	fmt.Fprintln(w)
	fmt.Fprintln(w, rep.Feedback.Advice)
	fmt.Fprintln(w, rep.Summary.Message)

	if len(rep.ByExamType) > 0 {
		fmt.Fprintln(w)
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "EXAM TYPE\tWEIGHTED AVG\tCREDITS\tENTRIES")
		for _, t := range rep.ByExamType {
			fmt.Fprintf(tw, "%s\t%.2f\t%g\t%d\n", t.ExamType, t.Average, t.Credits, t.Count)
		}
		tw.Flush()
	}

	if len(rep.Feedback.Subjects) > 0 {
		fmt.Fprintln(w)
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SUBJECT\tAVERAGE\tFEEDBACK")
		for _, s := range rep.Feedback.Subjects {
			fmt.Fprintf(tw, "%s\t%.2f\t%s\n", s.Name, s.Average, s.Message)
		}
		tw.Flush()
	}
}

func renderBooks(w io.Writer, res *query.SuggestBooksResult) {
	if res.Subject == "" {
		fmt.Fprintln(w, "Add a subject to get book suggestions.")
		return
	}
	fmt.Fprintf(w, "Suggested reading for %s (%d of %d):\n", res.Subject, len(res.Books), res.Total)
	for _, b := range res.Books {
		fmt.Fprintf(w, "  - %s by %s (%.1f)\n", b.Title, b.Author, b.Rating)
	}
	if res.Featured != nil {
		fmt.Fprintf(w, "Featured: %s by %s\n", res.Featured.Title, res.Featured.Author)
	}
	if res.HasMore {
		fmt.Fprintln(w, "More suggestions available; raise -page to see them.")
	}
	if len(res.Subjects) > 1 {
		fmt.Fprintf(w, "Other subjects: %s\n", strings.Join(others(res.Subjects, res.Subject), ", "))
	}
}

func renderFieldErrors(w io.Writer, errs subject.FieldErrors) {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, string(f))
	}
	sort.Strings(fields)
	for _, f := range fields {
		fmt.Fprintf(w, "  %s: %s\n", f, errs[subject.Field(f)])
	}
}

func others(names []string, selected string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n != selected {
			out = append(out, n)
		}
	}
	return out
}
