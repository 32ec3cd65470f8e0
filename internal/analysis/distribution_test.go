package analysis

import (
	"reflect"
	"testing"
)

func TestAddDistributions(t *testing.T) {
	tests := []struct {
		name     string
		data     []AnalysisData
		maxOrder int
		expected []Distribution
	}{
		{
			name:     "empty input yields nothing",
			data:     nil,
			maxOrder: 0,
			expected: nil,
		},
		{
			name: "inferred maximum order",
			data: []AnalysisData{
				{Value: 10, BranchingOrder: 1},
				{Value: 5, BranchingOrder: 1},
				{Value: 3, BranchingOrder: 2},
			},
			maxOrder: 0,
			expected: []Distribution{
				{BranchingOrder: 1, Value: 15},
				{BranchingOrder: 2, Value: 3},
			},
		},
		{
			name: "explicit maximum order pads with zeros",
			data: []AnalysisData{
				{Value: 10, BranchingOrder: 1},
				{Value: 5, BranchingOrder: 1},
				{Value: 3, BranchingOrder: 2},
			},
			maxOrder: 3,
			expected: []Distribution{
				{BranchingOrder: 1, Value: 15},
				{BranchingOrder: 2, Value: 3},
				{BranchingOrder: 3, Value: 0},
			},
		},
		{
			name: "gap in observed orders gets implicit zero",
			data: []AnalysisData{
				{Value: 2, BranchingOrder: 1},
				{Value: 7, BranchingOrder: 3},
			},
			maxOrder: 0,
			expected: []Distribution{
				{BranchingOrder: 1, Value: 2},
				{BranchingOrder: 2, Value: 0},
				{BranchingOrder: 3, Value: 7},
			},
		},
		{
			name: "orders beyond the declared maximum are dropped",
			data: []AnalysisData{
				{Value: 2, BranchingOrder: 1},
				{Value: 9, BranchingOrder: 5},
			},
			maxOrder: 2,
			expected: []Distribution{
				{BranchingOrder: 1, Value: 2},
				{BranchingOrder: 2, Value: 0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddDistributions(tt.data, tt.maxOrder)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("AddDistributions = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAverageDistributions(t *testing.T) {
	data := []AnalysisData{
		{Value: 10, BranchingOrder: 1},
		{Value: 20, BranchingOrder: 1},
		{Value: 6, BranchingOrder: 3},
	}

	got := AverageDistributions(data, 0)
	expected := []Distribution{
		{BranchingOrder: 1, Value: 15},
		{BranchingOrder: 2, Value: 0},
		{BranchingOrder: 3, Value: 6},
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("AverageDistributions = %v, want %v", got, expected)
	}

	if got := AverageDistributions(nil, 5); got != nil {
		t.Errorf("AverageDistributions(nil) = %v, want nil", got)
	}
}
