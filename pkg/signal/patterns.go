package signal

import "regexp"

// patternTable holds the frozen lexical evidence per signal kind. A single
// match sets confidence 1.0 for that kind; patterns are binary evidence, the
// graded scores come from the model layer.
var patternTable = map[Kind][]*regexp.Regexp{
	KindCausalAmbiguity: compile(
		`why (is|are|does|do|did) .{0,60}(happen|occur|fail|drop|break)`,
		`root cause`,
		`don'?t (understand|know) (why|what('s| is) causing)`,
		`no idea why`,
		`keeps? happening`,
	),
	KindSystemBottleneck: compile(
		`bottleneck`,
		`(blocked|stuck) (by|on|at)`,
		`can'?t (scale|keep up)`,
		`single point of failure`,
		`slow(est|ing) (down|part|step)`,
	),
	KindStakeholderConflict: compile(
		`stakeholder`,
		`(team|board|investors?|departments?) (disagree|conflict|pushback|push back)`,
		`(conflicting|competing) (interests|priorities|goals)`,
		`can'?t get (buy-?in|alignment)`,
	),
	KindTrendPressure: compile(
		`(market|industry|technology) (is |are )?(shifting|changing|moving)`,
		`disrupt(ion|ing|ed)`,
		`competitors? (are|keep) `,
		`falling behind`,
		`(ai|new entrants?) (is|are) (changing|eating)`,
	),
	KindUserBehavior: compile(
		`(customers?|users?) (don'?t|won'?t|keep|churn|drop)`,
		`churn`,
		`(pain points?|user needs?)`,
		`jobs? to be done`,
		`why (do|would) (customers?|users?|people)`,
	),
	KindBusinessModel: compile(
		`(revenue|pricing|monetiz|margins?)`,
		`business model`,
		`(how (do|can|will) we (make|capture) (money|value))`,
		`unit economics`,
	),
	KindValidationGap: compile(
		`(assume|assumption)s?`,
		`(no|without|lack of) (evidence|data|proof)`,
		`(haven'?t|never) (tested|validated)`,
		`not sure (if|whether) (anyone|customers?|users?) (wants?|needs?|would pay)`,
	),
	KindExecutionFocus: compile(
		`how (do|should|can) (i|we) (implement|build|execute|deliver|roll out|launch)`,
		`(implementation|execution) plan`,
		`next steps?`,
		`operationali[sz]e`,
	),
	KindIdeationNeeded: compile(
		`(out of|no|need) (new )?ideas`,
		`(stuck|blank)`,
		`brainstorm`,
		`(fresh|different) (perspectives?|angles?|approach)`,
	),
	KindNarrativeFocus: compile(
		`(pitch|pitching|story|storytelling|narrative)`,
		`(convince|persuade) (investors?|the board|my boss|leadership)`,
		`how (do|should) (i|we) (present|communicate|frame)`,
	),
	KindStrategicChoice: compile(
		`(trade-?offs?)`,
		`(should (i|we)|whether to) .{0,40} or `,
		`(strategic|direction) (choice|decision)`,
		`(which|what) (option|path|direction|market) (should|do)`,
	),
	KindUncertaintyHigh: compile(
		`unknown unknowns?`,
		`(so much|too much|high) uncertainty`,
		`(never been done|uncharted|novel territory|no playbook)`,
		`no idea (what|where|how) to (start|begin)`,
	),
	KindTimePressure: compile(
		`deadline`,
		`(running out of|short on|no) time`,
		`(urgent|urgency|asap)`,
		`(by (next|end of) (week|month|quarter))`,
		`runway`,
	),
}

func compile(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(`(?i)` + p)
	}
	return out
}
