package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"AVRentals/repositories/mocks"
)

func writeExtractedReport(t *testing.T, dir string, texts []string) {
	t.Helper()
	data, err := json.Marshal(map[string]interface{}{"texts": texts})
	assert.NoError(t, err)
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "extracted-ui-texts.json"), data, 0644))
}

func TestCoverageRefreshComputesMissing(t *testing.T) {
	dir := t.TempDir()
	writeExtractedReport(t, dir, []string{
		"Save changes",
		"Cart",
		strings.Repeat("x", 150),
		"Welcome aboard",
	})

	repo := new(mocks.TranslationRepository)
	repo.On("SourceTexts", "pt").Return([]string{"Cart"}, nil).Once()

	svc := NewCoverageService(repo, dir)
	summary, err := svc.Refresh()

	assert.NoError(t, err)
	assert.Equal(t, 4, summary.Extracted)
	// "Cart" already exists and the long text is filtered out.
	assert.Equal(t, 2, summary.Missing)
	// "Save changes" matches the critical word list.
	assert.Equal(t, 1, summary.Critical)

	// The report file feeds subsequent Report calls.
	report, err := svc.Report(CoverageParams{})
	assert.NoError(t, err)
	assert.Equal(t, 2, report.MissingCount)
	assert.Equal(t, 4, report.ExtractedCount)
	assert.Equal(t, []string{"Save changes", "Welcome aboard"}, report.Items)
	assert.Equal(t, 1, report.CriticalCount)
	assert.Equal(t, []string{"Save changes"}, report.TopCritical)
	repo.AssertExpectations(t)
}

func TestCoverageRefreshMissingExtractedFile(t *testing.T) {
	svc := NewCoverageService(new(mocks.TranslationRepository), t.TempDir())

	_, err := svc.Refresh()

	assert.Error(t, err)
}

func TestCoverageReportWithoutRefreshIsEmpty(t *testing.T) {
	svc := NewCoverageService(new(mocks.TranslationRepository), t.TempDir())

	report, err := svc.Report(CoverageParams{})

	assert.NoError(t, err)
	assert.Equal(t, 0, report.MissingCount)
	assert.Equal(t, 0, report.Total)
	assert.Equal(t, 1, report.Page)
	assert.Equal(t, 1, report.Pages)
	assert.Empty(t, report.Items)
}

func TestCoverageReportGroupFilter(t *testing.T) {
	dir := t.TempDir()
	writeExtractedReport(t, dir, []string{"Client phone number", "Event schedule"})

	repo := new(mocks.TranslationRepository)
	repo.On("SourceTexts", "pt").Return([]string{}, nil).Once()

	svc := NewCoverageService(repo, dir)
	_, err := svc.Refresh()
	assert.NoError(t, err)

	report, err := svc.Report(CoverageParams{Group: "clients"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"Client phone number"}, report.Items)
	// Group breakdown covers the pool before the group filter.
	assert.Equal(t, 1, report.Groups["clients"])
	assert.Equal(t, 1, report.Groups["events"])
}

func TestCoverageReportSearchFilter(t *testing.T) {
	dir := t.TempDir()
	writeExtractedReport(t, dir, []string{"Client phone number", "Event schedule"})

	repo := new(mocks.TranslationRepository)
	repo.On("SourceTexts", "pt").Return([]string{}, nil).Once()

	svc := NewCoverageService(repo, dir)
	_, err := svc.Refresh()
	assert.NoError(t, err)

	report, err := svc.Report(CoverageParams{Search: "CLIENT"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"Client phone number"}, report.Items)
	assert.Equal(t, 1, report.Total)
}

func TestCoverageReportOnlyCritical(t *testing.T) {
	dir := t.TempDir()
	writeExtractedReport(t, dir, []string{"Save changes", "Welcome aboard"})

	repo := new(mocks.TranslationRepository)
	repo.On("SourceTexts", "pt").Return([]string{}, nil).Once()

	svc := NewCoverageService(repo, dir)
	_, err := svc.Refresh()
	assert.NoError(t, err)

	report, err := svc.Report(CoverageParams{OnlyCritical: true})
	assert.NoError(t, err)
	assert.Equal(t, []string{"Save changes"}, report.Items)
}

func TestCoverageReportPagination(t *testing.T) {
	dir := t.TempDir()
	var texts []string
	for i := 0; i < 12; i++ {
		texts = append(texts, fmt.Sprintf("Heading %02d", i))
	}
	writeExtractedReport(t, dir, texts)

	repo := new(mocks.TranslationRepository)
	repo.On("SourceTexts", "pt").Return([]string{}, nil).Once()

	svc := NewCoverageService(repo, dir)
	_, err := svc.Refresh()
	assert.NoError(t, err)

	report, err := svc.Report(CoverageParams{Page: 2, Limit: 10})
	assert.NoError(t, err)
	assert.Equal(t, 12, report.Total)
	assert.Equal(t, 2, report.Page)
	assert.Equal(t, 2, report.Pages)
	assert.Len(t, report.Items, 2)
}

func TestClassifyFeature(t *testing.T) {
	assert.Equal(t, "clients", classifyFeature("Add new client"))
	assert.Equal(t, "quotes", classifyFeature("Download quote PDF"))
	assert.Equal(t, "inventory", classifyFeature("Equipment list"))
	assert.Equal(t, "general", classifyFeature("Welcome back"))
}
