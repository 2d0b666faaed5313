package graph

import (
	"fmt"
	"strings"

	"github.com/knakk/rdf"
)

// TermKind distinguishes the three kinds of RDF terms.
type TermKind int

const (
	// KindIRI is an IRI reference.
	KindIRI TermKind = iota
	// KindBlank is a blank node.
	KindBlank
	// KindLiteral is a literal value.
	KindLiteral
)

// Term is a node of the graph.
type Term struct {
	Kind TermKind

	// Value is the IRI, the blank node label or the literal's lexical form.
	Value string

	// key is the N-Triples serialization used for set membership.
	key string

	// lit keeps the decoded literal so datatype and language survive encoding.
	lit rdf.Term
}

// IRI returns an IRI term.
func IRI(iri string) Term {
	return Term{Kind: KindIRI, Value: iri, key: "<" + iri + ">"}
}

// Blank returns a blank node term.
func Blank(label string) Term {
	return Term{Kind: KindBlank, Value: label, key: "_:" + label}
}

// String returns the N-Triples form of the term.
func (t Term) String() string {
	return t.key
}

// Triple is a single RDF statement.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

// String returns the N-Triples line for the triple, without the newline.
func (t Triple) String() string {
	return fmt.Sprintf("%s %s %s .", t.Subject, t.Predicate, t.Object)
}

// convertTerm maps a decoded term to a graph term, scoping blank node labels
// to the document they were read from.
func convertTerm(term rdf.Term, scope string) Term {
	switch term.Type() {
	case rdf.TermBlank:
		label := strings.TrimPrefix(term.String(), "_:")
		return Blank(scope + label)
	case rdf.TermLiteral:
		return Term{Kind: KindLiteral, Value: term.String(), key: term.Serialize(rdf.NTriples), lit: term}
	default:
		return IRI(term.String())
	}
}

func convertTriple(tr rdf.Triple, scope string) Triple {
	return Triple{
		Subject:   convertTerm(tr.Subj, scope),
		Predicate: convertTerm(tr.Pred, scope),
		Object:    convertTerm(tr.Obj, scope),
	}
}

// rdfTerm converts the term back to its decoder representation.
func (t Term) rdfTerm() (rdf.Term, error) {
	switch t.Kind {
	case KindBlank:
		return rdf.NewBlank(t.Value)
	case KindLiteral:
		if t.lit != nil {
			return t.lit, nil
		}
		return rdf.NewLiteral(t.Value)
	default:
		return rdf.NewIRI(t.Value)
	}
}

// rdfTriple converts the triple back to its decoder representation.
func (t Triple) rdfTriple() (rdf.Triple, error) {
	subj, err := t.Subject.rdfTerm()
	if err != nil {
		return rdf.Triple{}, fmt.Errorf("subject %s: %w", t.Subject, err)
	}
	pred, err := t.Predicate.rdfTerm()
	if err != nil {
		return rdf.Triple{}, fmt.Errorf("predicate %s: %w", t.Predicate, err)
	}
	obj, err := t.Object.rdfTerm()
	if err != nil {
		return rdf.Triple{}, fmt.Errorf("object %s: %w", t.Object, err)
	}

	s, ok := subj.(rdf.Subject)
	if !ok {
		return rdf.Triple{}, fmt.Errorf("invalid subject: %s", t.Subject)
	}
	p, ok := pred.(rdf.Predicate)
	if !ok {
		return rdf.Triple{}, fmt.Errorf("invalid predicate: %s", t.Predicate)
	}
	o, ok := obj.(rdf.Object)
	if !ok {
		return rdf.Triple{}, fmt.Errorf("invalid object: %s", t.Object)
	}
	return rdf.Triple{Subj: s, Pred: p, Obj: o}, nil
}
