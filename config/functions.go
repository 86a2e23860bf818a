package config

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

func newEvalContext(env map[string]string) *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			"get_env": getEnvFunc(env),
		},
	}
}

// getEnvFunc implements get_env(name, default?) over env.
func getEnvFunc(env map[string]string) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{
			{Name: "name", Type: cty.String},
		},
		VarParam: &function.Parameter{Name: "default", Type: cty.String},
		Type:     function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			if len(args) > 2 {
				return cty.StringVal(""), function.NewArgErrorf(2, "get_env accepts at most a name and a default value")
			}

			name := args[0].AsString()
			if name == "" {
				return cty.StringVal(""), function.NewArgErrorf(0, "the environment variable name must not be empty")
			}

			if val, ok := env[name]; ok {
				return cty.StringVal(val), nil
			}

			if len(args) == 2 {
				return args[1], nil
			}

			return cty.StringVal(""), nil
		},
	})
}
