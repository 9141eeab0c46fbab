package eval

type Class struct {
	Name string

	superclass *Class
	methods    map[string]*Function
}

// FindMethod looks name up on c, then along the superclass chain.
func (c *Class) FindMethod(name string) *Function {
	if m, ok := c.methods[name]; ok {
		return m
	}

	if c.superclass != nil {
		return c.superclass.FindMethod(name)
	}

	return nil
}

func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}

	return 0
}

func (c *Class) Call(in *Interpreter, args []any) (any, error) {
	instance := &Instance{class: c, fields: make(map[string]any)}

	if init := c.FindMethod("init"); init != nil {
		if _, err := init.Bind(instance).Call(in, args); err != nil {
			return nil, err
		}
	}

	return instance, nil
}

func (c *Class) String() string {
	return c.Name
}
