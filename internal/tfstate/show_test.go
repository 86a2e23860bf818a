package tfstate_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gruntwork-io/casper/internal/tfstate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadSample(t *testing.T, name string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)

	return string(data)
}

func TestParseShowInstance(t *testing.T) {
	t.Parallel()

	res := tfstate.ParseShow(loadSample(t, "aws_instance.txt"))

	assert.Equal(t, "aws_instance", res.Type)
	assert.Equal(t, "web", res.Name)
	assert.Equal(t, "aws_instance.web", res.Address.Raw)

	testCases := map[string]string{
		"id":                               "i-084699b83473e2c69",
		"instance_type":                    "t2.micro",
		"associate_public_ip_address":      "true",
		"security_groups.0":                "default",
		"security_groups.1":                "web",
		"tags.Name":                        "web",
		"tags.cost:center":                 "platform",
		"root_block_device.volume_size":    "8",
		"credit_specification.cpu_credits": "standard",
	}

	for key, expected := range testCases {
		val, ok := res.Lookup(key)
		require.True(t, ok, key)
		assert.Equal(t, expected, val, key)
	}

	userData, ok := res.Lookup("user_data")
	require.True(t, ok)
	assert.Contains(t, userData, `echo "id = not-an-attribute"`)

	_, ok = res.Lookup("spot_instance_id")
	assert.False(t, ok)

	assert.Equal(t, "ami", res.Keys()[0])
}

func TestParseShowRepeatedBlocksKeepFirst(t *testing.T) {
	t.Parallel()

	res := tfstate.ParseShow(loadSample(t, "aws_lb.txt"))

	name, ok := res.Lookup("name")
	require.True(t, ok)
	assert.Equal(t, "test-lb", name)

	subnet, ok := res.Lookup("subnet_mapping.subnet_id")
	require.True(t, ok)
	assert.Equal(t, "subnet-0a1b2c3d", subnet)

	prefix, _ := res.Lookup("access_logs.prefix")
	assert.Equal(t, "test-lb", prefix)
}

func TestParseShowFunctionValues(t *testing.T) {
	t.Parallel()

	res := tfstate.ParseShow(loadSample(t, "aws_iam_policy.txt"))

	assert.Equal(t, "module.iam", res.Address.Module)
	assert.Equal(t, "aws_iam_policy", res.Type)

	name, _ := res.Lookup("name")
	assert.Equal(t, "deploy", name)

	action, ok := res.Lookup("policy.Statement.0.Action")
	require.True(t, ok)
	assert.Equal(t, "s3:*", action)

	version, _ := res.Lookup("policy.Version")
	assert.Equal(t, "2012-10-17", version)

	_, ok = res.Lookup("Version")
	assert.False(t, ok, "nested keys must not leak to the top level")

	tags, _ := res.Lookup("tags")
	assert.Equal(t, "{}", tags)
}

func TestParseShowWithoutHeader(t *testing.T) {
	t.Parallel()

	res := tfstate.ParseShow("# aws_s3_bucket.logs:\n")
	assert.Equal(t, "aws_s3_bucket", res.Type)
	assert.Equal(t, "logs", res.Name)
	assert.Zero(t, res.Len())

	var empty *tfstate.Resource

	_, ok := empty.Lookup("id")
	assert.False(t, ok)
	assert.Nil(t, empty.Keys())
}

func TestIsAbsent(t *testing.T) {
	t.Parallel()

	assert.True(t, tfstate.IsAbsent(""))
	assert.True(t, tfstate.IsAbsent("  \n\t"))
	assert.True(t, tfstate.IsAbsent("No instance found for the given address!\n\nThis command requires that the address references one specific instance."))
	assert.False(t, tfstate.IsAbsent(loadSample(t, "aws_lb.txt")))
}

func TestResourceAttributesIsACopy(t *testing.T) {
	t.Parallel()

	res := tfstate.ParseShow(loadSample(t, "aws_lb.txt"))

	attrs := res.Attributes()
	assert.Equal(t, "application", attrs["load_balancer_type"])
	assert.Len(t, attrs, res.Len())

	attrs["name"] = "changed"

	name, _ := res.Lookup("name")
	assert.Equal(t, "test-lb", name)
}
