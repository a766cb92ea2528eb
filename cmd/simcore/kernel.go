package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Julesc013/dominium-sub017/kernel"
)

func kernelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kernel",
		Short: "Inspect kernel backend-selection decisions for a given request",
		RunE: func(cmd *cobra.Command, args []string) error {
			opID, _ := cmd.Flags().GetUint64("op")
			class, _ := cmd.Flags().GetString("class")
			slow, _ := cmd.Flags().GetBool("slow")
			disableSIMD, _ := cmd.Flags().GetBool("disable-simd")
			disableGPU, _ := cmd.Flags().GetBool("disable-gpu")
			return runKernelInspect(opID, class, slow, disableSIMD, disableGPU)
		},
	}
	cmd.Flags().Uint64("op", 0, "op id")
	cmd.Flags().String("class", "strict", "determinism class: strict, ordered, commutative, derived")
	cmd.Flags().Bool("slow", false, "set the profile's SLOW flag")
	cmd.Flags().Bool("disable-simd", false, "disable the SIMD backend via policy flags")
	cmd.Flags().Bool("disable-gpu", false, "disable the GPU backend via policy flags")
	return cmd
}

func parseDetClass(s string) (kernel.DeterminismClass, error) {
	switch s {
	case "strict":
		return kernel.ClassStrict, nil
	case "ordered":
		return kernel.ClassOrdered, nil
	case "commutative":
		return kernel.ClassCommutative, nil
	case "derived":
		return kernel.ClassDerived, nil
	default:
		return 0, fmt.Errorf("unknown determinism class %q", s)
	}
}

func runKernelInspect(opID uint64, classStr string, slow, disableSIMD, disableGPU bool) error {
	class, err := parseDetClass(classStr)
	if err != nil {
		return err
	}

	policy := kernel.Policy{
		DefaultOrder:       []kernel.BackendID{kernel.BackendScalar, kernel.BackendSIMD, kernel.BackendGPU},
		StrictBackendMask:  uint32(kernel.BackendScalar),
		DerivedBackendMask: uint32(kernel.BackendAll),
	}
	if disableSIMD {
		policy.Flags |= kernel.FlagDisableSIMD
	}
	if disableGPU {
		policy.Flags |= kernel.FlagDisableGPU
	}
	if code := policy.Validate(); !code.Ok() {
		return fmt.Errorf("invalid policy: %s", code.Error())
	}

	var profileFlags uint32
	if slow {
		profileFlags |= uint32(kernel.FlagSlow)
	}

	req := kernel.Request{
		OpID:                 opID,
		DeterminismClass:     class,
		AvailableBackendMask: uint32(kernel.BackendAll),
		LawBackendMask:       uint32(kernel.BackendAll),
		ProfileFlags:         kernel.ProfileFlags(profileFlags),
	}
	result := kernel.Select(&policy, req)

	if !result.Found {
		fmt.Printf("op=%d class=%s -> NO_CANDIDATE\n", opID, classStr)
		return nil
	}
	fmt.Printf("op=%d class=%s -> backend=%d\n", opID, classStr, result.Backend)
	return nil
}
