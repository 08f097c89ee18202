package model

// Decorator adjusts a Definition after it has been loaded and before it is
// registered with a document.
type Decorator interface {
	Decorate(*Definition) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func(*Definition) error

// Decorate calls the underlying function.
func (fn DecoratorFunc) Decorate(def *Definition) error {
	return fn(def)
}

// Decorate applies decorators in order and stops at the first error.
func Decorate(def *Definition, decorators ...Decorator) error {
	for _, d := range decorators {
		if d == nil {
			continue
		}
		if err := d.Decorate(def); err != nil {
			return err
		}
	}
	return nil
}
