package categories

import (
	"fmt"

	"github.com/trailhead-labs/habitkeep/internal/cli"
)

type CategoryCmd struct {
	Add    CategoryAddCmd    `cmd:"" help:"Add a new category."`
	List   CategoryListCmd   `cmd:"" help:"List categories." default:"1"`
	Delete CategoryDeleteCmd `cmd:"" help:"Delete a category and its habits."`
}

type CategoryAddCmd struct {
	Name string `arg:"" help:"Category name."`
}

func (c *CategoryAddCmd) Run(ctx *cli.Context) error {
	category, err := ctx.Store.AddCategory(c.Name)
	if err != nil {
		return err
	}

	fmt.Printf("Added category: %s (id %d)\n", category.Name, category.ID)
	return nil
}

type CategoryListCmd struct{}

func (c *CategoryListCmd) Run(ctx *cli.Context) error {
	categories, err := ctx.Store.GetCategories()
	if err != nil {
		return err
	}

	if len(categories) == 0 {
		fmt.Println("No categories found.")
		return nil
	}

	for _, category := range categories {
		fmt.Printf("%3d  %s\n", category.ID, category.Name)
	}
	return nil
}

type CategoryDeleteCmd struct {
	ID int64 `arg:"" help:"Category id to delete."`
}

func (c *CategoryDeleteCmd) Run(ctx *cli.Context) error {
	deleted, err := ctx.Store.DeleteCategory(c.ID)
	if err != nil {
		return err
	}
	if !deleted {
		fmt.Printf("Category %d not found.\n", c.ID)
		return nil
	}

	fmt.Printf("Deleted category %d.\n", c.ID)
	fmt.Println("(Habits in this category were removed with it.)")
	return nil
}
