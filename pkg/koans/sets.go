package koans

import (
	"context"

	"digital.vasic.koans/pkg/koan"
	"digital.vasic.koans/pkg/set"
)

// TopicSets is the topic of the Sets suite.
const TopicSets = "sets"

var highlanders = []string{
	"MacLeod", "Ramirez", "MacLeod", "Matunas",
	"MacLeod", "Malcolm", "MacLeod",
}

// Sets returns the koans about sets.
func Sets() *koan.Suite {
	goodGuy := set.Chars("macleod")
	badGuy := set.Chars("mutunas")

	return koan.NewSuite(TopicSets, "sets keep values unique").MustAdd(
		koan.New("sets_make_keep_lists_unique",
			set.Of("Malcolm", "Matunas", "MacLeod", "Ramirez"),
			func(context.Context) (any, error) {
				return set.FromSlice(highlanders), nil
			},
		),
		koan.Assert("there_can_only_be_four", "length", 4,
			func(context.Context) (any, error) {
				return set.FromSlice(highlanders), nil
			},
		),
		koan.New("sets_are_unordered",
			set.Of("5", "4", "3", "2", "1"),
			func(context.Context) (any, error) {
				return set.Chars("12345"), nil
			},
		),
		koan.New("convert_the_set_into_a_slice_to_sort_it",
			[]string{"1", "2", "3", "4", "5"},
			func(context.Context) (any, error) {
				return set.Sorted(set.Chars("13245")), nil
			},
		),

		koan.New("set_difference", "cdelo",
			func(context.Context) (any, error) {
				return set.Join(goodGuy.Difference(badGuy), ""), nil
			},
		),
		koan.New("set_union", "acdelmnostu",
			func(context.Context) (any, error) {
				return set.Join(goodGuy.Union(badGuy), ""), nil
			},
		),
		koan.New("set_intersection", "am",
			func(context.Context) (any, error) {
				return set.Join(goodGuy.Intersection(badGuy), ""), nil
			},
		),
		koan.New("set_symmetric_difference", "cdelnostu",
			func(context.Context) (any, error) {
				return set.Join(
					goodGuy.SymmetricDifference(badGuy), "",
				), nil
			},
		),

		koan.New("we_can_query_set_membership", true,
			func(context.Context) (any, error) {
				return set.Of(127, 0, 0, 1).Contains(127), nil
			},
		),
		koan.Assert("membership_by_contains", "contains", 127,
			func(context.Context) (any, error) {
				return set.Of(127, 0, 0, 1), nil
			},
		),
		koan.New("cow_is_not_in_the_apocalypse", true,
			func(context.Context) (any, error) {
				return !set.Chars("apocalypse now").Contains("cow"), nil
			},
		),
		koan.Assert("cow_by_not_contains", "not_contains", "cow",
			func(context.Context) (any, error) {
				return set.Chars("apocalypse now"), nil
			},
		),

		koan.New("we_can_compare_subsets", true,
			func(context.Context) (any, error) {
				return set.Chars("cake").IsSubset(
					set.Chars("cherry cake"),
				), nil
			},
		),
		koan.New("subset_agrees_with_less_or_equal", true,
			func(context.Context) (any, error) {
				a, b := set.Chars("cake"), set.Chars("cherry cake")
				return a.IsSubset(b) == b.IsSuperset(a), nil
			},
		),
		koan.New("cake_is_not_a_proper_superset_of_pie", false,
			func(context.Context) (any, error) {
				return set.Chars("cake").IsProperSuperset(
					set.Chars("pie"),
				), nil
			},
		),
	)
}
