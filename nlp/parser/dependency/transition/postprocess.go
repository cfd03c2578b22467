package transition

type headCandidate struct {
	id     int
	deprel string
	score  float64
}

// postProcess attaches every node left headless by the parse to the
// candidate whose best arc of the right direction scores highest.
// Candidates that are descendants of the node are never considered.
func (p *Parser) postProcess() {
	lambda, beta := p.lambda, p.beta
	defer func() { p.lambda, p.beta = lambda, beta }()

	size := p.tree.Size()
	for curr := 1; curr < size; curr++ {
		if p.tree.Get(curr).HasHead {
			continue
		}
		best := headCandidate{id: -1, score: -1000}
		for i := curr - 1; i >= 0; i-- {
			if !p.tree.IsAncestor(curr, i) {
				p.bestHead(curr, i, &best, RightArc)
			}
		}
		for i := curr + 1; i < size; i++ {
			if !p.tree.IsAncestor(curr, i) {
				p.bestHead(curr, i, &best, LeftArc)
			}
		}
		if best.id != -1 {
			p.tree.SetHead(curr, best.id, best.deprel, best.score)
		}
	}
}

// bestHead scores head as the head of curr using the first arc of kind in
// the ranked predictions.
func (p *Parser) bestHead(curr, head int, best *headCandidate, kind Kind) {
	if curr < head {
		p.lambda, p.beta = curr, head
	} else {
		p.lambda, p.beta = head, curr
	}
	predictions := p.Decoder.PredictAll(p.vector())
	if len(predictions) == 0 {
		return
	}
	lexicon := p.Extractor.Lexicon
	if curr < head && lexicon.Label(predictions[0].Label) == LB_SHIFT {
		return
	}
	for _, prediction := range predictions {
		action := ParseAction(lexicon.Label(prediction.Label))
		if !action.Kind.IsArc() {
			continue
		}
		if action.Kind == kind || (kind == LeftArc && action.Kind == LeftPop) {
			if prediction.Score > best.score {
				*best = headCandidate{head, action.Label, prediction.Score}
			}
			return
		}
	}
}

// postProcessConditional emits the gold instances a perfect parser would
// have produced for the nodes the predicted parse left headless.
func (p *Parser) postProcessConditional() {
	size := p.tree.Size()
	for curr := 1; curr < size; curr++ {
		if p.tree.Get(curr).HasHead {
			continue
		}
		p.lambda, p.beta = curr-1, curr
		if p.isShift() {
			p.emit(LB_SHIFT, p.vector())
		}
		head := p.gold[curr].head
		if !p.tree.InRange(head) {
			continue
		}
		if curr < head {
			p.lambda, p.beta = curr, head
		} else {
			p.lambda, p.beta = head, curr
		}
		p.emit(p.GoldAction().String(), p.vector())
	}
	p.lambda, p.beta = -1, size
}
