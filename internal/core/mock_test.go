package core

import (
	"context"
	"errors"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/agenthands/ise/internal/core/dedupe"
	"github.com/agenthands/ise/internal/core/model"
	"github.com/agenthands/ise/internal/relation"
)

type executedQuery struct {
	Query  string
	Params map[string]interface{}
}

type MockDriver struct {
	Executed   []executedQuery
	MockResult neo4j.EagerResult
	Err        error
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	m.Executed = append(m.Executed, executedQuery{Query: query, Params: params})
	if m.Err != nil {
		return neo4j.EagerResult{}, m.Err
	}
	return m.MockResult, nil
}

func (m *MockDriver) BuildIndices(ctx context.Context) error {
	return nil
}

func (m *MockDriver) Close(ctx context.Context) error {
	return nil
}

// MockSearcher answers queries from a fixed table and records each query.
type MockSearcher struct {
	Results map[string][]string
	Err     error
	Queries []string
}

func (m *MockSearcher) Search(ctx context.Context, query string) ([]string, error) {
	m.Queries = append(m.Queries, query)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Results[query], nil
}

// MockFetcher serves pages by URL; URLs listed in Fail return an error.
type MockFetcher struct {
	Pages   map[string]string
	Fail    map[string]bool
	Fetched []string
}

func (m *MockFetcher) Fetch(ctx context.Context, url string) (string, error) {
	m.Fetched = append(m.Fetched, url)
	if m.Fail[url] {
		return "", errors.New("connection reset")
	}
	return m.Pages[url], nil
}

// MockSource returns the tuples listed for a document's text.
type MockSource struct {
	Tuples map[string][]model.Tuple
	Fail   map[string]bool
	policy dedupe.Policy
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) Policy() dedupe.Policy {
	if m.policy == nil {
		return dedupe.ByConfidence{}
	}
	return m.policy
}

func (m *MockSource) Extract(ctx context.Context, text string, rel relation.Spec) ([]model.Tuple, error) {
	if m.Fail[text] {
		return nil, errors.New("tagger unavailable")
	}
	return m.Tuples[text], nil
}

// identityCleaner hands raw pages through unchanged so tests can key on them.
type identityCleaner struct{}

func (identityCleaner) Clean(raw string) string { return raw }
