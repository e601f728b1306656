// Package catalog holds the built-in per-variant problem sets. A variant is
// selected at startup via configuration and the catalog never changes while
// the process runs.
package catalog

import "hackathon-portal/internal/domain"

// Variant names a deployment's problem set and timer policy.
type Variant string

const (
	// VariantAlgoProtocols is the four-problem, untimed deployment.
	VariantAlgoProtocols Variant = "algo-protocols"
	// VariantSprint is the three-problem, one-hour deployment.
	VariantSprint Variant = "sprint"
	// VariantLightning is the two-problem, one-hour deployment.
	VariantLightning Variant = "lightning"
)

// TimerEnabled reports whether the variant freezes a hackathon deadline at login.
func (v Variant) TimerEnabled() bool {
	return v == VariantSprint || v == VariantLightning
}

// Builtin returns the static catalog for a variant, or false for an unknown one.
func Builtin(v Variant) ([]domain.Problem, bool) {
	switch v {
	case VariantAlgoProtocols:
		return algoProtocols, true
	case VariantSprint:
		return sprint, true
	case VariantLightning:
		return lightning, true
	}
	return nil, false
}

var algoProtocols = []domain.Problem{
	{
		ID:    1,
		Title: "Regular Expression Matching",
		Description: "Given an input string s and a pattern p, implement regular expression " +
			"matching with support for '.' and '*' where '.' matches any single character " +
			"and '*' matches zero or more of the preceding element. The matching should " +
			"cover the entire input string, not partial.",
		Difficulty: "Hard",
		Example:    domain.Example{Input: "s = 'aa', p = 'a'", Output: "false"},
		MaxScore:   25,
	},
	{
		ID:          2,
		Title:       "Integer to English Words",
		Description: "Convert a non-negative integer num to its English words representation.",
		Difficulty:  "Hard",
		Example:     domain.Example{Input: "num = 12345", Output: "'Twelve Thousand Three Hundred Forty Five'"},
		MaxScore:    25,
	},
	{
		ID:    3,
		Title: "Burst Balloons",
		Description: "You are given n balloons, indexed from 0 to n - 1. Each balloon is " +
			"painted with a number on it represented by an array nums. If you burst the " +
			"ith balloon you get nums[i-1] * nums[i] * nums[i+1] coins. Return the maximum " +
			"coins you can collect by bursting the balloons wisely.",
		Difficulty: "Hard",
		Example:    domain.Example{Input: "nums = [3,1,5,8]", Output: "167"},
		MaxScore:   25,
	},
	{
		ID:    4,
		Title: "Count All Valid Pickup/Delivery Options",
		Description: "Given n orders, each consisting of a pickup and a delivery service, " +
			"count all valid pickup/delivery sequences such that delivery is always after " +
			"its pickup.",
		Difficulty: "Hard",
		Example:    domain.Example{Input: "n = 2", Output: "6"},
		MaxScore:   25,
	},
}

var sprint = []domain.Problem{
	{
		ID:    1,
		Title: "Longest Increasing Subsequence",
		Description: "Given an integer array nums, return the length of the longest " +
			"strictly increasing subsequence.",
		Difficulty: "Medium",
		Example:    domain.Example{Input: "nums = [10,9,2,5,3,7,101,18]", Output: "4"},
		MaxScore:   30,
	},
	{
		ID:    2,
		Title: "Word Break",
		Description: "Given a string s and a dictionary of strings wordDict, return true " +
			"if s can be segmented into a space-separated sequence of one or more " +
			"dictionary words.",
		Difficulty: "Medium",
		Example:    domain.Example{Input: "s = 'leetcode', wordDict = ['leet','code']", Output: "true"},
		MaxScore:   30,
	},
	{
		ID:    3,
		Title: "Edit Distance",
		Description: "Given two strings word1 and word2, return the minimum number of " +
			"operations (insert, delete, replace) required to convert word1 to word2.",
		Difficulty: "Hard",
		Example:    domain.Example{Input: "word1 = 'horse', word2 = 'ros'", Output: "3"},
		MaxScore:   40,
	},
}

var lightning = []domain.Problem{
	{
		ID:    1,
		Title: "Two Sum",
		Description: "Given an array of integers nums and an integer target, return the " +
			"indices of the two numbers that add up to target.",
		Difficulty: "Easy",
		Example:    domain.Example{Input: "nums = [2,7,11,15], target = 9", Output: "[0,1]"},
		MaxScore:   20,
	},
	{
		ID:    2,
		Title: "Valid Parentheses",
		Description: "Given a string s containing just the characters '()[]{}', determine " +
			"if the input string is valid.",
		Difficulty: "Easy",
		Example:    domain.Example{Input: "s = '([])'", Output: "true"},
		MaxScore:   20,
	},
}
