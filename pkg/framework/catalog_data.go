package framework

import "pws-mentor-be/pkg/signal"

// builtinFrameworks is the PWS framework library: the discovery-phase and
// solution-phase methodologies, each mapped to the thinking signals that
// trigger it. Prerequisite chains encode which groundwork a framework needs
// before it is worth recommending.
var builtinFrameworks = []Framework{
	// Discovery phase
	{
		ID:           "root_cause_analysis",
		Title:        "Root Cause Analysis (5 Whys)",
		Definition:   "Drill down through symptoms to find underlying causes.",
		Category:     CategoryDiscovery,
		Triggers:     []signal.Kind{signal.KindCausalAmbiguity},
		Alternatives: []string{"systems_thinking", "process_mapping"},
	},
	{
		ID:           "reverse_salience",
		Title:        "Reverse Salience",
		Definition:   "Identify what is not being said, missing, or avoided in the problem space.",
		Category:     CategoryDiscovery,
		Triggers:     []signal.Kind{signal.KindSystemBottleneck},
		Alternatives: []string{"process_mapping", "root_cause_analysis"},
	},
	{
		ID:            "scenario_planning",
		Title:         "Scenario Planning",
		Definition:    "Develop multiple plausible futures to prepare for uncertainty.",
		Category:      CategoryDiscovery,
		Triggers:      []signal.Kind{signal.KindTrendPressure},
		Alternatives:  []string{"macro_trends", "trending_to_absurd"},
	},
	{
		ID:           "jobs_to_be_done",
		Title:        "Jobs-To-Be-Done (JTBD)",
		Definition:   "Focus on the underlying job customers are trying to accomplish.",
		Category:     CategoryDiscovery,
		Triggers:     []signal.Kind{signal.KindUserBehavior},
		Alternatives: []string{"six_thinking_hats", "value_migration"},
	},
	{
		ID:           "process_mapping",
		Title:        "Process Mapping",
		Definition:   "Visualize the current process to expose friction and waste.",
		Category:     CategoryDiscovery,
		Triggers:     []signal.Kind{signal.KindExecutionFocus},
		Alternatives: []string{"reverse_salience", "root_cause_analysis"},
	},
	{
		ID:           "six_thinking_hats",
		Title:        "Six Thinking Hats",
		Definition:   "Structured parallel thinking using six distinct perspectives.",
		Category:     CategoryDiscovery,
		Triggers:     []signal.Kind{signal.KindIdeationNeeded},
		Alternatives: []string{"reverse_salience", "trending_to_absurd"},
	},
	{
		ID:           "trending_to_absurd",
		Title:        "Trending to the Absurd",
		Definition:   "Extrapolate current trends to extremes to reveal hidden implications.",
		Category:     CategoryDiscovery,
		Alternatives: []string{"scenario_planning"},
	},
	{
		ID:           "macro_trends",
		Title:        "Macro Trends Analysis (PESTLE)",
		Definition:   "Analyze the large-scale forces shaping the problem space.",
		Category:     CategoryDiscovery,
		Alternatives: []string{"scenario_planning"},
	},
	{
		ID:            "systems_thinking",
		Title:         "Systems Thinking",
		Definition:    "Understand the problem as an interconnected system with feedback loops.",
		Category:      CategoryDiscovery,
		Prerequisites: []string{"stakeholder_mapping"},
		Alternatives:  []string{"cynefin", "root_cause_analysis"},
	},
	{
		ID:            "value_migration",
		Title:         "Value Migration",
		Definition:    "Track where value is moving in the industry to find opportunities.",
		Category:      CategoryDiscovery,
		Prerequisites: []string{"macro_trends"},
		Alternatives:  []string{"business_model_canvas"},
	},
	{
		ID:           "cynefin",
		Title:        "Cynefin Framework",
		Definition:   "Locate the problem in the clear/complicated/complex/chaotic domains to choose a response mode.",
		Category:     CategoryDiscovery,
		Triggers:     []signal.Kind{signal.KindUncertaintyHigh},
		Alternatives: []string{"scenario_planning", "systems_thinking"},
	},

	// Solution phase
	{
		ID:            "pws_triple_validation",
		Title:         "PWS Triple Validation Compass",
		Definition:    "Validate that a problem is real, winnable, and worth it.",
		Category:      CategorySolution,
		Triggers:      []signal.Kind{signal.KindTimePressure},
		Alternatives:  []string{"lean_startup_mvp", "mullins_model"},
	},
	{
		ID:            "lean_startup_mvp",
		Title:         "Lean Startup / MVP",
		Definition:    "Build-measure-learn cycle with a minimum viable product.",
		Category:      CategorySolution,
		Triggers:      []signal.Kind{signal.KindValidationGap},
		Prerequisites: []string{"pws_triple_validation"},
		Alternatives:  []string{"pws_triple_validation", "business_model_canvas"},
	},
	{
		ID:            "business_model_canvas",
		Title:         "Business Model Canvas",
		Definition:    "Map the nine building blocks of a business model.",
		Category:      CategorySolution,
		Triggers:      []signal.Kind{signal.KindBusinessModel},
		Prerequisites: []string{"jobs_to_be_done"},
		Alternatives:  []string{"mullins_model", "value_migration"},
	},
	{
		ID:            "mullins_model",
		Title:         "Mullins 7 Domains Model",
		Definition:    "Assess opportunity attractiveness across market, industry, and team.",
		Category:      CategorySolution,
		Prerequisites: []string{"business_model_canvas"},
		Alternatives:  []string{"business_model_canvas"},
	},
	{
		ID:            "heart_framework",
		Title:         "HEART Framework (Pitching)",
		Definition:    "Structure a compelling pitch: hook, evidence, action, reason, timeline.",
		Category:      CategorySolution,
		Triggers:      []signal.Kind{signal.KindNarrativeFocus},
		Prerequisites: []string{"pws_triple_validation"},
		Alternatives:  []string{"business_model_canvas"},
	},
	{
		ID:           "stakeholder_mapping",
		Title:        "Stakeholder Mapping",
		Definition:   "Identify and analyze every party affected by or affecting the problem.",
		Category:     CategorySolution,
		Triggers:     []signal.Kind{signal.KindStakeholderConflict},
		Alternatives: []string{"systems_thinking", "six_thinking_hats"},
	},
	{
		ID:            "decision_trees",
		Title:         "Decision Trees",
		Definition:    "Structure sequential choices and their expected outcomes.",
		Category:      CategorySolution,
		Triggers:      []signal.Kind{signal.KindStrategicChoice},
		Prerequisites: []string{"scenario_planning"},
		Alternatives:  []string{"scenario_planning", "six_thinking_hats"},
	},
}
