package pkg

import (
	"github.com/hashicorp/go-hclog"

	"github.com/cartdark/cartkit/pkg/cart"
	"github.com/cartdark/cartkit/pkg/cart/loader"
	"github.com/cartdark/cartkit/pkg/cart/packsync"
	"github.com/cartdark/cartkit/pkg/logging"
)

// CheckProjectWithLogger checks that the project's descriptor loads and
// that its manifest agrees with the tree. It returns every issue found;
// descriptor problems are reported under the "descriptor" field.
func CheckProjectWithLogger(root string, logger hclog.Logger) []packsync.Issue {
	logger = logging.OrNull(logger)
	paths := cart.NewPaths(root)
	logger.Info("Checking project", "root", paths.Root())

	var issues []packsync.Issue

	l := loader.New(logger)
	if path, err := l.LocateDescriptor(paths.Root()); err != nil {
		issues = append(issues, packsync.Issue{Field: "descriptor", Message: err.Error()})
		logger.Error("✗ Descriptor not located", "error", err)
	} else if _, err := l.Load(path); err != nil {
		issues = append(issues, packsync.Issue{Field: "descriptor", Path: path, Message: err.Error()})
		logger.Error("✗ Descriptor invalid", "path", path, "error", err)
	} else {
		logger.Info("✓ Descriptor valid", "path", path)
	}

	manifestIssues := packsync.New(logger).Validate(paths.Root())
	if len(manifestIssues) == 0 {
		logger.Info("✓ Manifest consistent")
	}
	issues = append(issues, manifestIssues...)

	if len(issues) == 0 {
		logger.Info("✓ Project check passed")
	} else {
		logger.Error("✗ Project check failed", "issue_count", len(issues))
		for _, issue := range issues {
			logger.Error("  Project issue", "details", issue.String())
		}
	}
	return issues
}

// CheckProject checks a project using default logger settings.
func CheckProject(root string) []packsync.Issue {
	return CheckProjectWithLogger(root, DefaultLogger("cartkit-check"))
}
